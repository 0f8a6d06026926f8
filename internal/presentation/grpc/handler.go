package grpc

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/application/usecase"
	"github.com/bibbank/risk-service/internal/domain/domainerr"
)

// UseCases groups the application services the handler delegates to.
type UseCases struct {
	Create         *usecase.CreateRiskUseCase
	Get            *usecase.GetRiskUseCase
	List           *usecase.ListRisksUseCase
	Update         *usecase.UpdateRiskUseCase
	Assess         *usecase.AssessRiskUseCase
	ChangeStatus   *usecase.ChangeRiskStatusUseCase
	Close          *usecase.CloseRiskUseCase
	Assign         *usecase.AssignRiskUseCase
	Delete         *usecase.DeleteRiskUseCase
	History        *usecase.GetRiskHistoryUseCase
	CalculateScore *usecase.CalculateScoreUseCase
}

// RiskHandler implements the gRPC risk service handler.
type RiskHandler struct {
	UnimplementedRiskServiceServer
	uc       UseCases
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRiskHandler creates a new gRPC risk handler.
func NewRiskHandler(uc UseCases, logger *slog.Logger) *RiskHandler {
	return &RiskHandler{
		uc:       uc,
		validate: newValidator(),
		logger:   logger,
	}
}

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateAssignment, AssignRiskRequest{})
	v.RegisterStructValidation(validateListFilters, ListRisksRequest{})
	return v
}

// validateListFilters allows at most one filter per ListRisksRequest.
func validateListFilters(sl validator.StructLevel) {
	req := sl.Current().Interface().(ListRisksRequest)
	set := 0
	for _, on := range []bool{req.CriticalOnly, req.Status != "", req.SiteID != 0} {
		if on {
			set++
		}
	}
	if set > 1 {
		sl.ReportError(req, "filter", "ListRisksRequest", "excluded_with", "critical_only status site_id")
	}
}

// validateAssignment rejects an AssignRiskRequest that sets neither field.
func validateAssignment(sl validator.StructLevel) {
	req := sl.Current().Interface().(AssignRiskRequest)
	if req.SiteID == nil && req.AssignedToID == nil {
		sl.ReportError(req.SiteID, "site_id", "SiteID", "required_without", "assigned_to_id")
	}
}

// CreateRiskRequest represents the gRPC request for registering a risk.
type CreateRiskRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type" validate:"required,oneof=security environment social cyber"`
	Severity     int    `json:"severity" validate:"min=1,max=5"`
	Probability  int    `json:"probability" validate:"min=1,max=5"`
	SiteID       *int64 `json:"site_id,omitempty" validate:"omitempty,gt=0"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty" validate:"omitempty,gt=0"`
	ActorID      int64  `json:"actor_id,omitempty" validate:"gte=0"`
}

// GetRiskRequest represents the gRPC request for reading a risk.
type GetRiskRequest struct {
	RiskID int64 `json:"risk_id" validate:"required,gt=0"`
}

// ListRisksRequest represents the gRPC request for listing risks. Status,
// SiteID and CriticalOnly are mutually exclusive; with none set every risk is
// returned.
type ListRisksRequest struct {
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=draft open assessed mitigated closed"`
	SiteID       int64  `json:"site_id,omitempty" validate:"gte=0"`
	CriticalOnly bool   `json:"critical_only,omitempty"`
}

// UpdateRiskRequest represents the gRPC request for editing a risk.
type UpdateRiskRequest struct {
	RiskID      int64  `json:"risk_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type" validate:"required,oneof=security environment social cyber"`
	Severity    *int   `json:"severity,omitempty" validate:"omitempty,min=1,max=5"`
	Probability *int   `json:"probability,omitempty" validate:"omitempty,min=1,max=5"`
	ActorID     int64  `json:"actor_id,omitempty" validate:"gte=0"`
}

// AssessRiskRequest represents the gRPC request for re-assessing a risk.
type AssessRiskRequest struct {
	RiskID      int64 `json:"risk_id" validate:"required,gt=0"`
	Severity    int   `json:"severity" validate:"min=1,max=5"`
	Probability int   `json:"probability" validate:"min=1,max=5"`
	ActorID     int64 `json:"actor_id,omitempty" validate:"gte=0"`
}

// ChangeRiskStatusRequest represents the gRPC request for a workflow transition.
// Unknown statuses are rejected by the workflow, not here.
type ChangeRiskStatusRequest struct {
	RiskID  int64  `json:"risk_id" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required"`
	ActorID int64  `json:"actor_id,omitempty" validate:"gte=0"`
}

// CloseRiskRequest represents the gRPC request for closing a risk.
type CloseRiskRequest struct {
	RiskID  int64 `json:"risk_id" validate:"required,gt=0"`
	ActorID int64 `json:"actor_id,omitempty" validate:"gte=0"`
}

// AssignRiskRequest represents the gRPC request for assigning a risk. At least
// one of SiteID and AssignedToID must be set.
type AssignRiskRequest struct {
	RiskID       int64  `json:"risk_id" validate:"required,gt=0"`
	SiteID       *int64 `json:"site_id,omitempty" validate:"omitempty,gte=0"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty" validate:"omitempty,gte=0"`
}

// DeleteRiskRequest represents the gRPC request for deleting a risk.
type DeleteRiskRequest struct {
	RiskID int64 `json:"risk_id" validate:"required,gt=0"`
}

// DeleteRiskResponse represents the gRPC response for deleting a risk.
type DeleteRiskResponse struct {
	RiskID int64 `json:"risk_id"`
}

// GetRiskHistoryRequest represents the gRPC request for the audit trail.
type GetRiskHistoryRequest struct {
	RiskID int64 `json:"risk_id,omitempty" validate:"gte=0"`
}

// CalculateScoreRequest represents the gRPC request for a score preview.
type CalculateScoreRequest struct {
	Strategy    string `json:"strategy,omitempty" validate:"omitempty,oneof=simple matrix advanced"`
	Severity    int    `json:"severity" validate:"min=1,max=5"`
	Probability int    `json:"probability" validate:"min=1,max=5"`
}

// CreateRisk handles the gRPC CreateRisk request.
func (h *RiskHandler) CreateRisk(ctx context.Context, req *CreateRiskRequest) (*dto.RiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.Create.Execute(ctx, dto.CreateRiskRequest{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Severity:     req.Severity,
		Probability:  req.Probability,
		SiteID:       req.SiteID,
		AssignedToID: req.AssignedToID,
		ActorID:      req.ActorID,
	})
	return h.respond(ctx, "CreateRisk", result, err)
}

// GetRisk handles the gRPC GetRisk request.
func (h *RiskHandler) GetRisk(ctx context.Context, req *GetRiskRequest) (*dto.RiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.Get.Execute(ctx, dto.GetRiskRequest{RiskID: req.RiskID})
	return h.respond(ctx, "GetRisk", result, err)
}

// ListRisks handles the gRPC ListRisks request.
func (h *RiskHandler) ListRisks(ctx context.Context, req *ListRisksRequest) (*dto.ListRisksResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.List.Execute(ctx, dto.ListRisksRequest{
		Status:       req.Status,
		SiteID:       req.SiteID,
		CriticalOnly: req.CriticalOnly,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "ListRisks", err)
	}
	return &result, nil
}

// UpdateRisk handles the gRPC UpdateRisk request.
func (h *RiskHandler) UpdateRisk(ctx context.Context, req *UpdateRiskRequest) (*dto.RiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.Update.Execute(ctx, dto.UpdateRiskRequest{
		RiskID:      req.RiskID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Severity:    req.Severity,
		Probability: req.Probability,
		ActorID:     req.ActorID,
	})
	return h.respond(ctx, "UpdateRisk", result, err)
}

// AssessRisk handles the gRPC AssessRisk request.
func (h *RiskHandler) AssessRisk(ctx context.Context, req *AssessRiskRequest) (*dto.RiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.Assess.Execute(ctx, dto.AssessRiskRequest{
		RiskID:      req.RiskID,
		Severity:    req.Severity,
		Probability: req.Probability,
		ActorID:     req.ActorID,
	})
	return h.respond(ctx, "AssessRisk", result, err)
}

// ChangeRiskStatus handles the gRPC ChangeRiskStatus request.
func (h *RiskHandler) ChangeRiskStatus(ctx context.Context, req *ChangeRiskStatusRequest) (*dto.RiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.ChangeStatus.Execute(ctx, dto.ChangeRiskStatusRequest{
		RiskID:  req.RiskID,
		Status:  req.Status,
		ActorID: req.ActorID,
	})
	return h.respond(ctx, "ChangeRiskStatus", result, err)
}

// CloseRisk handles the gRPC CloseRisk request.
func (h *RiskHandler) CloseRisk(ctx context.Context, req *CloseRiskRequest) (*dto.RiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.Close.Execute(ctx, dto.CloseRiskRequest{
		RiskID:  req.RiskID,
		ActorID: req.ActorID,
	})
	return h.respond(ctx, "CloseRisk", result, err)
}

// AssignRisk handles the gRPC AssignRisk request.
func (h *RiskHandler) AssignRisk(ctx context.Context, req *AssignRiskRequest) (*dto.RiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.Assign.Execute(ctx, dto.AssignRiskRequest{
		RiskID:       req.RiskID,
		SiteID:       req.SiteID,
		AssignedToID: req.AssignedToID,
	})
	return h.respond(ctx, "AssignRisk", result, err)
}

// DeleteRisk handles the gRPC DeleteRisk request.
func (h *RiskHandler) DeleteRisk(ctx context.Context, req *DeleteRiskRequest) (*DeleteRiskResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	if err := h.uc.Delete.Execute(ctx, dto.DeleteRiskRequest{RiskID: req.RiskID}); err != nil {
		return nil, h.toStatus(ctx, "DeleteRisk", err)
	}
	return &DeleteRiskResponse{RiskID: req.RiskID}, nil
}

// GetRiskHistory handles the gRPC GetRiskHistory request.
func (h *RiskHandler) GetRiskHistory(ctx context.Context, req *GetRiskHistoryRequest) (*dto.GetRiskHistoryResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.History.Execute(ctx, dto.GetRiskHistoryRequest{RiskID: req.RiskID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetRiskHistory", err)
	}
	return &result, nil
}

// CalculateScore handles the gRPC CalculateScore request.
func (h *RiskHandler) CalculateScore(ctx context.Context, req *CalculateScoreRequest) (*dto.CalculateScoreResponse, error) {
	if err := validateRequest(ctx, h.validate, req); err != nil {
		return nil, err
	}
	result, err := h.uc.CalculateScore.Execute(ctx, dto.CalculateScoreRequest{
		Strategy:    req.Strategy,
		Severity:    req.Severity,
		Probability: req.Probability,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "CalculateScore", err)
	}
	return &result, nil
}

// validateRequest rejects nil and malformed requests with InvalidArgument.
func validateRequest[T any](ctx context.Context, v *validator.Validate, req *T) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	if err := v.StructCtx(ctx, req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return status.Errorf(codes.InvalidArgument, "invalid %s: failed %q constraint", fe.Field(), fe.Tag())
		}
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func (h *RiskHandler) respond(ctx context.Context, method string, result dto.RiskResponse, err error) (*dto.RiskResponse, error) {
	if err != nil {
		return nil, h.toStatus(ctx, method, err)
	}
	return &result, nil
}

// toStatus maps an application error onto a gRPC status.
func (h *RiskHandler) toStatus(ctx context.Context, method string, err error) error {
	code := CodeOf(err)
	if code == codes.Internal {
		h.logger.ErrorContext(ctx, "risk request failed", "method", method, "error", err)
	}
	return status.Error(code, err.Error())
}

// CodeOf returns the gRPC code for a domain or application error.
func CodeOf(err error) codes.Code {
	switch domainerr.KindOf(err) {
	case domainerr.KindOutOfRange, domainerr.KindInvalidTitle, domainerr.KindInvalidType:
		return codes.InvalidArgument
	case domainerr.KindInvalidTransition:
		return codes.FailedPrecondition
	case domainerr.KindNotFound:
		return codes.NotFound
	}
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}
