package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/infotier/verify-api/internal/dto"
	"github.com/infotier/verify-api/internal/models"
	"github.com/infotier/verify-api/internal/observability"
	"github.com/infotier/verify-api/internal/provider"
	"github.com/infotier/verify-api/internal/queue"
	"github.com/infotier/verify-api/internal/repository"
	"github.com/infotier/verify-api/pkg/blobstore"
)

// ErrVerificationNotFound indicates a verification could not be found.
var ErrVerificationNotFound = errors.New("verification not found")

// ErrInvalidAction indicates a manual decision action outside approved/rejected.
var ErrInvalidAction = errors.New("invalid manual decision action")

// Evidence field names recognized by key convention during evaluation.
const (
	fieldSelfie  = "selfie"
	fieldIDFront = "id_front"
)

// EvidenceFile is one uploaded file from the submission form.
type EvidenceFile struct {
	Field string
	Mime  string
	Data  []byte
}

// VerificationService orchestrates the verification pipeline: evidence intake,
// asynchronous evaluation, decision persistence, audit, and notification.
type VerificationService interface {
	Create(ctx context.Context, payload dto.VerificationCreateRequest, files []EvidenceFile) (dto.VerificationReceipt, error)
	Evaluate(ctx context.Context, verificationID string)
	ManualDecision(ctx context.Context, id, action, actor string) (dto.VerificationResponse, error)
	List(ctx context.Context) ([]dto.VerificationResponse, error)
	Get(ctx context.Context, id string) (dto.VerificationResponse, error)
	Logs(ctx context.Context, id string) ([]dto.AuditLogResponse, error)
}

type verificationService struct {
	verifications repository.VerificationRepository
	evidence      repository.EvidenceRepository
	auditLogs     repository.AuditLogRepository
	blobs         blobstore.Store
	ocr           provider.OCRProvider
	face          provider.FaceProvider
	engine        DecisionEngine
	policies      *PolicyResolver
	dispatcher    queue.Dispatcher
	notifier      WebhookNotifier
	validator     *validator.Validate
	logger        zerolog.Logger
	now           func() time.Time
}

// NewVerificationService constructs the orchestrator.
func NewVerificationService(
	verifications repository.VerificationRepository,
	evidence repository.EvidenceRepository,
	auditLogs repository.AuditLogRepository,
	blobs blobstore.Store,
	ocr provider.OCRProvider,
	face provider.FaceProvider,
	policies *PolicyResolver,
	dispatcher queue.Dispatcher,
	notifier WebhookNotifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) VerificationService {
	return &verificationService{
		verifications: verifications,
		evidence:      evidence,
		auditLogs:     auditLogs,
		blobs:         blobs,
		ocr:           ocr,
		face:          face,
		engine:        NewDecisionEngine(),
		policies:      policies,
		dispatcher:    dispatcher,
		notifier:      notifier,
		validator:     validate,
		logger:        logger.With().Str("component", "verification_service").Logger(),
		now:           time.Now,
	}
}

// Create persists the verification record and its evidence, then dispatches
// evaluation and returns a pending receipt without waiting for it.
func (s *verificationService) Create(ctx context.Context, payload dto.VerificationCreateRequest, files []EvidenceFile) (dto.VerificationReceipt, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.VerificationReceipt{}, err
	}

	if err := s.blobs.EnsureBucket(ctx); err != nil {
		return dto.VerificationReceipt{}, fmt.Errorf("evidence store unavailable: %w", err)
	}

	verificationID := "verif_" + uuid.NewString()

	verification := models.Verification{
		ID:            verificationID,
		CustomerID:    payload.CustomerID,
		UserReference: payload.UserReference,
		IDType:        payload.IDType,
		Status:        models.StatusPending,
	}
	if err := s.verifications.Create(ctx, &verification); err != nil {
		return dto.VerificationReceipt{}, fmt.Errorf("failed to persist verification: %w", err)
	}

	for _, file := range files {
		checksum := sha256.Sum256(file.Data)
		key := fmt.Sprintf("%s/%s_%s", verificationID, file.Field, uuid.NewString())

		// Blob write completes before the evidence row is committed so no row
		// ever references unstored bytes.
		if err := s.blobs.Put(ctx, key, file.Data, file.Mime); err != nil {
			return dto.VerificationReceipt{}, fmt.Errorf("failed to store evidence %q: %w", file.Field, err)
		}

		row := models.Evidence{
			VerificationID: verificationID,
			StorageKey:     key,
			Mime:           file.Mime,
			Checksum:       hex.EncodeToString(checksum[:]),
		}
		if err := s.evidence.Create(ctx, &row); err != nil {
			return dto.VerificationReceipt{}, fmt.Errorf("failed to persist evidence %q: %w", file.Field, err)
		}
	}

	observability.VerificationsCreated().Inc()

	if err := s.dispatcher.Dispatch(ctx, verificationID); err != nil {
		// The record exists and evidence is stored; the verification stays
		// pending until a manual decision resolves it. Surfacing the error
		// would fail an otherwise complete ingestion.
		s.logger.Error().Err(err).Str("verification_id", verificationID).Msg("failed to dispatch evaluation")
	}

	s.logger.Info().
		Str("verification_id", verificationID).
		Str("customer_id", payload.CustomerID).
		Int("evidence_count", len(files)).
		Msg("verification created")

	return dto.VerificationReceipt{VerificationID: verificationID, Status: models.StatusPending}, nil
}

// Evaluate runs the asynchronous scoring and decision step for one
// verification. It never returns an error: the call runs detached, so every
// failure is handled locally and logged. Redelivery is safe because decided
// verifications are skipped.
func (s *verificationService) Evaluate(ctx context.Context, verificationID string) {
	start := s.now()

	verification, err := s.verifications.GetByID(ctx, verificationID)
	if err != nil {
		s.logger.Error().Err(err).Str("verification_id", verificationID).Msg("evaluation aborted: verification not readable")
		return
	}

	if verification.IsDecided() {
		s.logger.Debug().Str("verification_id", verificationID).Str("status", verification.Status).Msg("skipping evaluation of decided verification")
		return
	}

	policy := s.policies.Resolve(ctx, verification.CustomerID)

	rows, err := s.evidence.ListByVerification(ctx, verificationID)
	if err != nil {
		s.logger.Error().Err(err).Str("verification_id", verificationID).Msg("evaluation aborted: evidence rows not readable")
		return
	}

	frontBytes := s.fetchEvidence(ctx, selectEvidence(rows, fieldIDFront, true))
	selfieBytes := s.fetchEvidence(ctx, selectEvidence(rows, fieldSelfie, false))

	providerFailures := map[string]interface{}{}

	ocrResult, err := s.ocr.Extract(ctx, frontBytes)
	if err != nil {
		// Most conservative score on provider failure; evaluation continues.
		s.logger.Warn().Err(err).Str("verification_id", verificationID).Msg("ocr provider failed, scoring zero")
		providerFailures["ocr"] = err.Error()
		ocrResult = provider.OCRResult{}
	}

	faceResult, err := s.face.Compare(ctx, selfieBytes, frontBytes)
	if err != nil {
		s.logger.Warn().Err(err).Str("verification_id", verificationID).Msg("face provider failed, scoring zero")
		providerFailures["face"] = err.Error()
		faceResult = provider.FaceResult{}
	}

	decision := s.engine.Decide(Signals{
		OCRConfidence: ocrResult.Confidence,
		MatchScore:    faceResult.MatchScore,
		Liveness:      faceResult.Liveness,
	}, policy.Thresholds)

	completedAt := s.now()
	verification.Status = decision.Status
	verification.Score = &decision.Score
	verification.DecisionReason = &decision.Reason
	verification.OCRData = datatypes.JSONMap{
		"text":       ocrResult.Text,
		"confidence": ocrResult.Confidence,
	}
	verification.CompletedAt = &completedAt

	if err := s.verifications.Update(ctx, &verification); err != nil {
		s.logger.Error().Err(err).Str("verification_id", verificationID).Msg("failed to persist decision")
		return
	}

	meta := datatypes.JSONMap{
		"decision": map[string]interface{}{
			"status": decision.Status,
			"score":  decision.Score,
			"reason": decision.Reason,
		},
		"ocr": map[string]interface{}{
			"text":       ocrResult.Text,
			"confidence": ocrResult.Confidence,
		},
		"face": map[string]interface{}{
			"match_score": faceResult.MatchScore,
			"liveness":    faceResult.Liveness,
		},
	}
	if len(providerFailures) > 0 {
		meta["provider_errors"] = providerFailures
	}

	if err := s.auditLogs.Create(ctx, &models.AuditLog{
		VerificationID: verificationID,
		Action:         models.AuditActionAutoDecision,
		Actor:          models.ActorSystem,
		Meta:           meta,
	}); err != nil {
		s.logger.Error().Err(err).Str("verification_id", verificationID).Msg("failed to append audit entry")
	}

	observability.Decisions().WithLabelValues(decision.Status, "auto").Inc()
	observability.EvaluationDuration().Observe(s.now().Sub(start).Seconds())

	s.logger.Info().
		Str("verification_id", verificationID).
		Str("status", decision.Status).
		Float64("score", decision.Score).
		Msg("verification evaluated")

	s.notifier.Notify(ctx, verificationID, models.AuditActionAutoDecision)
}

// ManualDecision overwrites the verification outcome regardless of its current
// state. Manual overrides can land on pending, decided, or previously
// overridden records; last write wins against a racing evaluation.
func (s *verificationService) ManualDecision(ctx context.Context, id, action, actor string) (dto.VerificationResponse, error) {
	if action != models.StatusApproved && action != models.StatusRejected {
		return dto.VerificationResponse{}, ErrInvalidAction
	}
	if actor == "" {
		actor = "admin"
	}

	verification, err := s.verifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VerificationResponse{}, ErrVerificationNotFound
		}
		return dto.VerificationResponse{}, err
	}

	reason := fmt.Sprintf("Manual %s by %s", action, actor)
	completedAt := s.now()
	verification.Status = action
	verification.DecisionReason = &reason
	verification.CompletedAt = &completedAt

	if err := s.verifications.Update(ctx, &verification); err != nil {
		return dto.VerificationResponse{}, fmt.Errorf("failed to persist manual decision: %w", err)
	}

	auditAction := "manual_" + action
	if err := s.auditLogs.Create(ctx, &models.AuditLog{
		VerificationID: id,
		Action:         auditAction,
		Actor:          actor,
		Meta:           datatypes.JSONMap{"reason": reason},
	}); err != nil {
		s.logger.Error().Err(err).Str("verification_id", id).Msg("failed to append audit entry")
	}

	observability.Decisions().WithLabelValues(action, "manual").Inc()

	s.logger.Info().
		Str("verification_id", id).
		Str("action", auditAction).
		Str("actor", actor).
		Msg("manual decision recorded")

	// Delivery runs detached so a slow or failing customer endpoint cannot
	// stall the response. The request ctx is recycled once the handler
	// returns, so the goroutine gets its own.
	go s.notifier.Notify(context.Background(), id, auditAction)

	return dto.NewVerificationResponse(verification), nil
}

func (s *verificationService) List(ctx context.Context) ([]dto.VerificationResponse, error) {
	verifications, err := s.verifications.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewVerificationResponseSlice(verifications), nil
}

func (s *verificationService) Get(ctx context.Context, id string) (dto.VerificationResponse, error) {
	verification, err := s.verifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VerificationResponse{}, ErrVerificationNotFound
		}
		return dto.VerificationResponse{}, err
	}

	return dto.NewVerificationResponse(verification), nil
}

func (s *verificationService) Logs(ctx context.Context, id string) ([]dto.AuditLogResponse, error) {
	if _, err := s.verifications.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}

	entries, err := s.auditLogs.ListByVerification(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewAuditLogResponseSlice(entries), nil
}

// fetchEvidence reads evidence bytes, degrading to empty on any store failure
// so a flaky object store cannot abort evaluation.
func (s *verificationService) fetchEvidence(ctx context.Context, row *models.Evidence) []byte {
	if row == nil {
		return []byte{}
	}

	data, err := s.blobs.Get(ctx, row.StorageKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("storage_key", row.StorageKey).Msg("evidence fetch failed, treating as empty")
		return []byte{}
	}

	return data
}

// selectEvidence picks the evidence row whose storage key names the wanted
// field. With fallback set, the first row stands in when no key matches.
func selectEvidence(rows []models.Evidence, field string, fallback bool) *models.Evidence {
	for i := range rows {
		if strings.Contains(rows[i].StorageKey, field) {
			return &rows[i]
		}
	}

	if fallback && len(rows) > 0 {
		return &rows[0]
	}

	return nil
}
