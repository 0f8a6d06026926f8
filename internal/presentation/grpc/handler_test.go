package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/application/usecase"
	"github.com/bibbank/risk-service/internal/domain/domainerr"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/infrastructure/memory"
	"github.com/bibbank/risk-service/internal/infrastructure/messaging"
	"github.com/bibbank/risk-service/internal/infrastructure/subscriber"
	"github.com/bibbank/risk-service/pkg/tlsutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T) *RiskHandler {
	t.Helper()
	logger := testLogger()
	risks := memory.NewRiskRepository()
	history := memory.NewRiskHistoryRepository()

	dispatcher := messaging.NewDispatcher(logger)
	dispatcher.Subscribe(subscriber.NewAuditRecorder(history, logger))

	status := usecase.NewChangeRiskStatusUseCase(risks, dispatcher, logger)
	return NewRiskHandler(UseCases{
		Create:         usecase.NewCreateRiskUseCase(risks, dispatcher, logger),
		Get:            usecase.NewGetRiskUseCase(risks, logger),
		List:           usecase.NewListRisksUseCase(risks, logger),
		Update:         usecase.NewUpdateRiskUseCase(risks, dispatcher, logger),
		Assess:         usecase.NewAssessRiskUseCase(risks, dispatcher, logger),
		ChangeStatus:   status,
		Close:          usecase.NewCloseRiskUseCase(status),
		Assign:         usecase.NewAssignRiskUseCase(risks, logger),
		Delete:         usecase.NewDeleteRiskUseCase(risks, logger),
		History:        usecase.NewGetRiskHistoryUseCase(risks, history, logger),
		CalculateScore: usecase.NewCalculateScoreUseCase("simple", logger),
	}, logger)
}

func createRisk(t *testing.T, h *RiskHandler, sev, prob int) *dto.RiskResponse {
	t.Helper()
	resp, err := h.CreateRisk(context.Background(), &CreateRiskRequest{
		Title: "Intrusion sur site", Type: "security", Severity: sev, Probability: prob,
	})
	require.NoError(t, err)
	return resp
}

func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %v", err)
	assert.Equal(t, want, st.Code(), st.Message())
}

func TestCreateRisk(t *testing.T) {
	h := newTestHandler(t)
	site := int64(7)

	resp, err := h.CreateRisk(context.Background(), &CreateRiskRequest{
		Title:       "Pollution du sol",
		Type:        "environment",
		Severity:    5,
		Probability: 5,
		SiteID:      &site,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Score)
	assert.Equal(t, "critical", resp.ScoreLevel)
	assert.Equal(t, "draft", resp.Status)
	require.NotNil(t, resp.SiteID)
	assert.Equal(t, int64(7), *resp.SiteID)

	tests := []struct {
		name string
		req  *CreateRiskRequest
	}{
		{"nil request", nil},
		{"short title", &CreateRiskRequest{Title: "ab", Type: "cyber", Severity: 1, Probability: 1}},
		{"unknown type", &CreateRiskRequest{Title: "Fraude", Type: "financial", Severity: 1, Probability: 1}},
		{"severity zero", &CreateRiskRequest{Title: "Fraude", Type: "cyber", Severity: 0, Probability: 1}},
		{"probability six", &CreateRiskRequest{Title: "Fraude", Type: "cyber", Severity: 1, Probability: 6}},
		{"blank title passes length but not domain", &CreateRiskRequest{Title: "    ", Type: "cyber", Severity: 1, Probability: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.CreateRisk(context.Background(), tt.req)
			requireCode(t, err, codes.InvalidArgument)
		})
	}
}

func TestValidationMessageUsesJSONNames(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.AssessRisk(context.Background(), &AssessRiskRequest{RiskID: 1, Severity: 9, Probability: 1})
	requireCode(t, err, codes.InvalidArgument)
	assert.Contains(t, status.Convert(err).Message(), "severity")
}

func TestGetRisk(t *testing.T) {
	h := newTestHandler(t)
	created := createRisk(t, h, 3, 3)

	got, err := h.GetRisk(context.Background(), &GetRiskRequest{RiskID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	_, err = h.GetRisk(context.Background(), &GetRiskRequest{RiskID: 999})
	requireCode(t, err, codes.NotFound)

	_, err = h.GetRisk(context.Background(), &GetRiskRequest{})
	requireCode(t, err, codes.InvalidArgument)
}

func TestChangeRiskStatus(t *testing.T) {
	h := newTestHandler(t)
	created := createRisk(t, h, 4, 4)
	ctx := context.Background()

	_, err := h.ChangeRiskStatus(ctx, &ChangeRiskStatusRequest{RiskID: created.ID, Status: "assessed"})
	requireCode(t, err, codes.FailedPrecondition)

	_, err = h.ChangeRiskStatus(ctx, &ChangeRiskStatusRequest{RiskID: created.ID, Status: "archived"})
	requireCode(t, err, codes.FailedPrecondition)

	opened, err := h.ChangeRiskStatus(ctx, &ChangeRiskStatusRequest{RiskID: created.ID, Status: "open", ActorID: 3})
	require.NoError(t, err)
	assert.Equal(t, "open", opened.Status)

	closed, err := h.CloseRisk(ctx, &CloseRiskRequest{RiskID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "closed", closed.Status)

	_, err = h.CloseRisk(ctx, &CloseRiskRequest{RiskID: created.ID})
	requireCode(t, err, codes.FailedPrecondition)

	history, err := h.GetRiskHistory(ctx, &GetRiskHistoryRequest{RiskID: created.ID})
	require.NoError(t, err)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, "status_changed", history.Entries[0].Action)
	assert.Equal(t, "created", history.Entries[2].Action)
}

func TestUpdateAssessAssignDelete(t *testing.T) {
	h := newTestHandler(t)
	created := createRisk(t, h, 2, 2)
	ctx := context.Background()
	sev, prob := 5, 5

	updated, err := h.UpdateRisk(ctx, &UpdateRiskRequest{
		RiskID: created.ID, Title: "Intrusion confirmée", Type: "security", Severity: &sev, Probability: &prob,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Score)

	assessed, err := h.AssessRisk(ctx, &AssessRiskRequest{RiskID: created.ID, Severity: 1, Probability: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, assessed.Score)
	assert.Equal(t, "low", assessed.ScoreLevel)

	user := int64(11)
	assigned, err := h.AssignRisk(ctx, &AssignRiskRequest{RiskID: created.ID, AssignedToID: &user})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, user, *assigned.AssignedToID)

	_, err = h.AssignRisk(ctx, &AssignRiskRequest{RiskID: created.ID})
	requireCode(t, err, codes.InvalidArgument)
	assert.Contains(t, status.Convert(err).Message(), "site_id")

	site := int64(0)
	unlinked, err := h.AssignRisk(ctx, &AssignRiskRequest{RiskID: created.ID, SiteID: &site})
	require.NoError(t, err)
	assert.Nil(t, unlinked.SiteID)

	deleted, err := h.DeleteRisk(ctx, &DeleteRiskRequest{RiskID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.RiskID)

	_, err = h.DeleteRisk(ctx, &DeleteRiskRequest{RiskID: created.ID})
	requireCode(t, err, codes.NotFound)
}

func TestListRisks(t *testing.T) {
	h := newTestHandler(t)
	createRisk(t, h, 5, 4)
	createRisk(t, h, 1, 1)
	createRisk(t, h, 5, 5)
	ctx := context.Background()

	all, err := h.ListRisks(ctx, &ListRisksRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalCount)

	critical, err := h.ListRisks(ctx, &ListRisksRequest{CriticalOnly: true})
	require.NoError(t, err)
	require.Len(t, critical.Risks, 2)
	assert.Equal(t, 25, critical.Risks[0].Score)
	assert.Equal(t, 20, critical.Risks[1].Score)

	_, err = h.ListRisks(ctx, &ListRisksRequest{Status: "pending"})
	requireCode(t, err, codes.InvalidArgument)

	drafts, err := h.ListRisks(ctx, &ListRisksRequest{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, 3, drafts.TotalCount)

	for _, req := range []*ListRisksRequest{
		{CriticalOnly: true, Status: "draft"},
		{Status: "open", SiteID: 4},
		{CriticalOnly: true, SiteID: 4},
	} {
		_, err = h.ListRisks(ctx, req)
		requireCode(t, err, codes.InvalidArgument)
		assert.Contains(t, status.Convert(err).Message(), "filter")
	}
}

func TestCalculateScore(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		strategy string
		want     int
	}{
		{"", 12},
		{"simple", 12},
		{"matrix", 18},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("strategy %q", tt.strategy), func(t *testing.T) {
			resp, err := h.CalculateScore(ctx, &CalculateScoreRequest{Strategy: tt.strategy, Severity: 4, Probability: 3})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Score)
		})
	}

	_, err := h.CalculateScore(ctx, &CalculateScoreRequest{Strategy: "magic", Severity: 1, Probability: 1})
	requireCode(t, err, codes.InvalidArgument)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"out of range", fmt.Errorf("invalid severity: %w", domainerr.ErrOutOfRange), codes.InvalidArgument},
		{"invalid title", domainerr.ErrInvalidTitle, codes.InvalidArgument},
		{"invalid type", domainerr.ErrInvalidType, codes.InvalidArgument},
		{"transition", domainerr.ErrInvalidTransition, codes.FailedPrecondition},
		{"not found", fmt.Errorf("failed to find risk 4: %w", model.RiskNotFound(4)), codes.NotFound},
		{"event delivery", fmt.Errorf("%w: broker down", usecase.ErrEventDelivery), codes.Internal},
		{"canceled", context.Canceled, codes.Canceled},
		{"other", errors.New("disk full"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestUnimplementedServer(t *testing.T) {
	var srv UnimplementedRiskServiceServer
	_, err := srv.GetRisk(context.Background(), &GetRiskRequest{RiskID: 1})
	requireCode(t, err, codes.Unimplemented)
}

func TestRiskService_OverTheWire(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(newTestHandler(t), ServerConfig{ServiceName: "risk-service"}, testLogger())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
		grpclib.WithDefaultCallOptions(grpclib.CallContentSubtype(CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	ctx := context.Background()

	var created dto.RiskResponse
	err = conn.Invoke(ctx, FullMethod("CreateRisk"), &CreateRiskRequest{
		Title: "Cyberattaque", Type: "cyber", Severity: 4, Probability: 5,
	}, &created)
	require.NoError(t, err)
	assert.Equal(t, 20, created.Score)
	assert.NotZero(t, created.ID)

	var got dto.RiskResponse
	err = conn.Invoke(ctx, FullMethod("GetRisk"), &GetRiskRequest{RiskID: 404}, &got)
	requireCode(t, err, codes.NotFound)

	var history dto.GetRiskHistoryResponse
	require.NoError(t, conn.Invoke(ctx, FullMethod("GetRiskHistory"), &GetRiskHistoryRequest{}, &history))
	assert.Len(t, history.Entries, 1)

	health, err := healthpb.NewHealthClient(conn).Check(ctx,
		&healthpb.HealthCheckRequest{Service: ServiceName},
		grpclib.CallContentSubtype("proto"),
	)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())
}

func TestRiskService_OverTLS(t *testing.T) {
	pair, err := tlsutil.SelfSigned([]string{"127.0.0.1"}, time.Hour)
	require.NoError(t, err)
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "server.pem"), filepath.Join(dir, "server-key.pem")
	require.NoError(t, pair.WriteFiles(certFile, keyFile))

	serverCreds, err := tlsutil.ServerCredentials(certFile, keyFile)
	require.NoError(t, err)
	clientCreds, err := tlsutil.ClientCredentials(certFile)
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer(newTestHandler(t), ServerConfig{ServiceName: "risk-service", Credentials: serverCreds}, testLogger())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient(lis.Addr().String(),
		grpclib.WithTransportCredentials(clientCreds),
		grpclib.WithDefaultCallOptions(grpclib.CallContentSubtype(CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var resp dto.CalculateScoreResponse
	require.NoError(t, conn.Invoke(context.Background(), FullMethod("CalculateScore"),
		&CalculateScoreRequest{Strategy: "matrix", Severity: 5, Probability: 5}, &resp))
	assert.Equal(t, 25, resp.Score)
}
