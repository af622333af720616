package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/crewforge/backoffice/internal/apiserver/middleware"
	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/model"
)

type createEmployeeRequest struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	WorkEmail     string `json:"workEmail"`
	PersonalEmail string `json:"personalEmail"`
	Position      string `json:"position"`
}

// ListEmployees returns the employees visible to the caller's team.
func (h *Handler) ListEmployees(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)
	employees, err := h.store.ListEmployees(c.Request.Context(), scope)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// CreateEmployee creates an employee. The record is stamped with the
// caller's team; when the employee has a usable email a linked user account
// is provisioned, and a draft contract is always guaranteed.
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee := &model.Employee{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		WorkEmail:     req.WorkEmail,
		PersonalEmail: req.PersonalEmail,
		Position:      req.Position,
	}
	scope := middleware.ScopeFromContext(c)
	result, err := h.store.CreateEmployee(c.Request.Context(), scope, employee)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"employee": employee, "provisioning": result.Kind.String()})
}

// GetEmployee returns one employee with its user and contracts.
func (h *Handler) GetEmployee(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	scope := middleware.ScopeFromContext(c)
	employee, err := h.store.GetEmployee(c.Request.Context(), scope, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee updates mutable employee fields.
func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee := &model.Employee{
		ID:            id,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		WorkEmail:     req.WorkEmail,
		PersonalEmail: req.PersonalEmail,
		Position:      req.Position,
	}
	scope := middleware.ScopeFromContext(c)
	if err := h.store.UpdateEmployee(c.Request.Context(), scope, employee); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

type createContractRequest struct {
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	BasicSalary string  `json:"basicSalary"`
	StartDate   string  `json:"startDate"` // YYYY-MM-DD
	EndDate     *string `json:"endDate"`
}

// ListContracts returns an employee's contracts.
func (h *Handler) ListContracts(c *gin.Context) {
	employeeID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	scope := middleware.ScopeFromContext(c)
	contracts, err := h.store.ListContracts(c.Request.Context(), scope, employeeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// CreateContract attaches a contract to an employee.
func (h *Handler) CreateContract(c *gin.Context) {
	employeeID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract := &model.Contract{
		EmployeeID: employeeID,
		Status:     cnst.ContractStatusDraft,
		Type:       cnst.DefaultContractType,
	}
	if req.Status != "" {
		contract.Status = req.Status
	}
	if req.Type != "" {
		contract.Type = req.Type
	}
	if req.BasicSalary != "" {
		salary, err := decimal.NewFromString(req.BasicSalary)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid salary"})
			return
		}
		contract.BasicSalary = salary
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return
		}
		contract.StartDate = start
	} else {
		contract.StartDate = time.Now()
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}
		contract.EndDate = &end
	}

	scope := middleware.ScopeFromContext(c)
	if err := h.store.CreateContract(c.Request.Context(), scope, contract); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}
