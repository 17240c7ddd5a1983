package handler

import (
	"time"

	apphr "github.com/erp/suite/internal/application/hr"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee records
type EmployeeHandler struct {
	BaseHandler
	employeeService *apphr.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *apphr.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// CreateEmployeeRequest hires an employee
type CreateEmployeeRequest struct {
	FullName   string    `json:"full_name" binding:"required,min=1,max=200" example:"Sam Taylor"`
	Email      string    `json:"email" binding:"omitempty,email,max=200" example:"sam@acme.example"`
	Department string    `json:"department" binding:"max=100" example:"Finance"`
	Position   string    `json:"position" binding:"max=100" example:"Bookkeeper"`
	HireDate   time.Time `json:"hire_date" binding:"required" example:"2026-03-01T00:00:00Z"`
}

// UpdateEmployeeRequest edits an employee record
type UpdateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required,min=1,max=200"`
	Email        string  `json:"email" binding:"omitempty,email,max=200"`
	Department   string  `json:"department" binding:"max=100"`
	Position     string  `json:"position" binding:"max=100"`
	LinkedUserID *string `json:"linked_user_id"`
}

// TerminateRequest ends an employment; the date defaults to today
type TerminateRequest struct {
	At *time.Time `json:"at" example:"2026-10-31T00:00:00Z"`
}

// EmployeeListQuery narrows an employee listing
type EmployeeListQuery struct {
	dto.ListRequest
	Department string `form:"department"`
	Status     string `form:"status" binding:"omitempty,oneof=active terminated"`
}

// List godoc
// @ID           listEmployees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        page       query int    false "Page number"
// @Param        page_size  query int    false "Page size"
// @Param        search     query string false "Search by name, code or email"
// @Param        department query string false "Filter by department"
// @Param        status     query string false "active or terminated"
// @Success      200 {object} APIResponse[[]apphr.EmployeeDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var q EmployeeListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.employeeService.List(c.Request.Context(), apphr.EmployeeListFilter{
		Filter:     q.Filter(),
		Department: q.Department,
		Status:     q.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createEmployee
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body CreateEmployeeRequest true "Employee details"
// @Success      201 {object} APIResponse[apphr.EmployeeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.Create(c.Request.Context(), apphr.CreateEmployeeInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
		HireDate:   req.HireDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// Get godoc
// @ID           getEmployee
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} APIResponse[apphr.EmployeeDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employeeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Update godoc
// @ID           updateEmployee
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Employee ID"
// @Param        request body UpdateEmployeeRequest true "Employee changes"
// @Success      200 {object} APIResponse[apphr.EmployeeDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req UpdateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.Update(c.Request.Context(), c.Param("id"), apphr.UpdateEmployeeInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Department:   req.Department,
		Position:     req.Position,
		LinkedUserID: req.LinkedUserID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Terminate godoc
// @ID           terminateEmployee
// @Summary      Terminate an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id      path string           true  "Employee ID"
// @Param        request body TerminateRequest false "Termination date"
// @Success      200 {object} APIResponse[apphr.EmployeeDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id}/terminate [post]
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	var req TerminateRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	var at time.Time
	if req.At != nil {
		at = *req.At
	}
	employee, err := h.employeeService.Terminate(c.Request.Context(), c.Param("id"), at)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete godoc
// @ID           deleteEmployee
// @Summary      Delete an employee record
// @Tags         employees
// @Param        id path string true "Employee ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
