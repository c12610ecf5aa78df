package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"loanflow-backend/internal/domain/loan"
	"loanflow-backend/internal/usecase/lifecycle"
	"loanflow-backend/internal/usecase/query"
)

type LoanHandler struct {
	engine  *lifecycle.Engine
	queries *query.Queries
}

func NewLoanHandler(engine *lifecycle.Engine, queries *query.Queries) *LoanHandler {
	return &LoanHandler{engine: engine, queries: queries}
}

type applyReq struct {
	Amount  float64 `json:"amount"  validate:"required,gt=0,dec2"`
	Purpose string  `json:"purpose" validate:"required"`
}

type decisionReq struct {
	LoanID string `param:"loan_id" json:"-" validate:"required,hex32"`
	// pointer so a missing field is distinguishable from false
	Approve *bool  `json:"approve" validate:"required"`
	Notes   string `json:"notes"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, err := h.engine.Apply(c.Request().Context(), principalFrom(c), lifecycle.ApplyInput{
		Amount:  req.Amount,
		Purpose: req.Purpose,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) Verify(c echo.Context) error {
	loanID, req, err := h.bindDecision(c)
	if err != nil {
		return err
	}
	l, err := h.engine.Verify(c.Request().Context(), principalFrom(c), loanID, *req.Approve, req.Notes)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) Approve(c echo.Context) error {
	loanID, req, err := h.bindDecision(c)
	if err != nil {
		return err
	}
	l, err := h.engine.Approve(c.Request().Context(), principalFrom(c), loanID, *req.Approve, req.Notes)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// bindDecision validates the shared shape of verify/approve requests. A
// non-nil error has already been written to the response.
func (h *LoanHandler) bindDecision(c echo.Context) (string, *decisionReq, error) {
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return "", nil, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return "", nil, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return req.LoanID, &req, nil
}

func (h *LoanHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if st := c.QueryParam("status"); st != "" {
		out, err := h.queries.ByStatus(ctx, loan.Status(st))
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
	out, err := h.queries.List(ctx)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Get(c echo.Context) error {
	l, err := h.queries.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) ByApplicant(c echo.Context) error {
	out, err := h.queries.ByApplicant(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Map domain error kinds → HTTP codes. The kinds stay distinguishable for
// the caller; the message carries the detail.
func writeDomainError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, loan.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, loan.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, loan.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, loan.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, loan.ErrDuplicateID):
		// unreachable with generated ids, but never swallowed
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
