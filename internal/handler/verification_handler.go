package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"sort"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/infotier/verify-api/internal/dto"
	"github.com/infotier/verify-api/internal/service"
	"github.com/infotier/verify-api/internal/utils"
)

// VerificationHandler manages the verification endpoints.
type VerificationHandler struct {
	service   service.VerificationService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewVerificationHandler builds a verification handler instance.
func NewVerificationHandler(service service.VerificationService, validator *validator.Validate, logger zerolog.Logger) *VerificationHandler {
	return &VerificationHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "verification_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *VerificationHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/logs", h.logs)
	router.Post("/:id/decision", h.decision)
}

func (h *VerificationHandler) create(c *fiber.Ctx) error {
	payload := dto.VerificationCreateRequest{
		CustomerID:    c.FormValue("customer_id"),
		UserReference: c.FormValue("user_reference"),
		IDType:        c.FormValue("id_type"),
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form is required")
	}

	files, err := collectEvidenceFiles(form)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	receipt, err := h.service.Create(c.Context(), payload, files)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "verification created", receipt)
}

func (h *VerificationHandler) list(c *fiber.Ctx) error {
	verifications, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verifications retrieved", verifications)
}

func (h *VerificationHandler) get(c *fiber.Ctx) error {
	verification, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verification retrieved", verification)
}

func (h *VerificationHandler) logs(c *fiber.Ctx) error {
	entries, err := h.service.Logs(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "audit logs retrieved", entries)
}

func (h *VerificationHandler) decision(c *fiber.Ctx) error {
	var payload dto.ManualDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	actor := c.Get("X-Admin-Actor")

	verification, err := h.service.ManualDecision(c.Context(), c.Params("id"), payload.Action, actor)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "manual decision recorded", verification)
}

func (h *VerificationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrVerificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "verification not found")
	case errors.Is(err, service.ErrInvalidAction):
		return utils.SendError(c, fiber.StatusBadRequest, "action must be approved or rejected")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// collectEvidenceFiles reads every named file field from the form. Field names
// are sorted so evidence rows are created in a stable order.
func collectEvidenceFiles(form *multipart.Form) ([]service.EvidenceFile, error) {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var files []service.EvidenceFile
	for _, field := range fields {
		for _, header := range form.File[field] {
			data, err := readFileHeader(header)
			if err != nil {
				return nil, err
			}

			mime := header.Header.Get("Content-Type")
			if mime == "" || mime == "application/octet-stream" {
				mime = mimetype.Detect(data).String()
			}

			files = append(files, service.EvidenceFile{Field: field, Mime: mime, Data: data})
		}
	}

	return files, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	reader, err := header.Open()
	if err != nil {
		return nil, errors.New("failed to open file " + header.Filename)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.New("failed to read file " + header.Filename)
	}

	return data, nil
}
