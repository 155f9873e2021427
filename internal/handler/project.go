package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/keval2310/Expense-Manager/internal/middleware"
	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"
	"github.com/keval2310/Expense-Manager/internal/util"

	"github.com/gin-gonic/gin"
)

// ProjectHandler serves project CRUD with pagination and search.
type ProjectHandler struct {
	Store    store.Store
	PageSize int
}

func NewProjectHandler(st store.Store, pageSize int) *ProjectHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &ProjectHandler{Store: st, PageSize: pageSize}
}

type projectReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status" binding:"omitempty,oneof=active completed on-hold"`
}

type projectResp struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	StartDate   string               `json:"start_date"`
	EndDate     *string              `json:"end_date"`
	Status      models.ProjectStatus `json:"status"`
	OwnerID     string               `json:"owner_id"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toProjectResp(p *models.Project) projectResp {
	resp := projectResp{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   util.FormatDate(p.StartDate),
		Status:      p.Status,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
	}
	if p.EndDate != nil {
		end := util.FormatDate(*p.EndDate)
		resp.EndDate = &end
	}
	return resp
}

// applyProjectReq validates dates and copies the request onto the model.
func applyProjectReq(p *models.Project, req *projectReq) error {
	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		return err
	}
	var end *time.Time
	if req.EndDate != "" {
		e, err := util.ParseDate(req.EndDate)
		if err != nil {
			return err
		}
		if e.Before(start) {
			return errors.New("end date before start date")
		}
		end = &e
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = strings.TrimSpace(req.Description)
	p.StartDate = start
	p.EndDate = end
	if req.Status != "" {
		p.Status = models.ProjectStatus(req.Status)
	} else if p.Status == "" {
		p.Status = models.ProjectActive
	}
	return nil
}

func (h *ProjectHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.PageSize)))

	projects, total, err := h.Store.ListProjects(c.Request.Context(), store.ProjectFilter{
		Scope:  store.ScopeFor(user),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	items := make([]projectResp, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResp(&projects[i]))
	}
	page, limit = store.Normalize(page, limit)
	c.JSON(http.StatusOK, gin.H{
		"projects": items,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	project := models.Project{
		ID:      models.NewID(),
		OwnerID: user.ID,
	}
	if err := applyProjectReq(&project, &req); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.CreateProject(c.Request.Context(), &project); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": toProjectResp(&project)})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	project, err := h.Store.ProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "project not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	if !util.CanModify(user, project.OwnerID) {
		util.Error(c, http.StatusForbidden, util.MsgForbidden)
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}
	if err := applyProjectReq(project, &req); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.UpdateProject(c.Request.Context(), project); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": toProjectResp(project)})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	project, err := h.Store.ProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "project not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	if !util.CanModify(user, project.OwnerID) {
		util.Error(c, http.StatusForbidden, util.MsgForbidden)
		return
	}

	if err := h.Store.DeleteProject(c.Request.Context(), project.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
