package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"notestand/internal/http/middleware"
	"notestand/internal/identity"
	"notestand/internal/model"
	"notestand/internal/service"
)

// Services bundles the core services the HTTP layer orchestrates.
type Services struct {
	Documents service.DocumentService
	Delivery  service.DeliveryService
	Unlock    service.UnlockService
	Likes     service.LikeService
	Ledger    service.LedgerService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin: resolve inputs, call one service, translate the outcome.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", ListDocuments(svcs.Documents))
	app.Post("/documents", UploadDocument(svcs.Documents))
	app.Get("/documents/:id", GetDocument(svcs.Documents))
	app.Delete("/documents/:id", DeleteDocument(svcs.Documents))
	app.Post("/documents/:id/status", ModerateDocument(svcs.Documents))
	app.Get("/documents/:id/content", DeliverDocument(svcs.Delivery))
	app.Post("/documents/:id/unlock", UnlockDocument(svcs.Unlock))
	app.Post("/documents/:id/like", ToggleLike(svcs.Likes))

	app.Post("/accounts", CreateAccount(svcs.Ledger))
	app.Get("/accounts/:id", GetAccount(svcs.Ledger))
	app.Post("/accounts/:id/topup", TopUpAccount(svcs.Ledger))
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// requireAccount rejects anonymous callers. The viewer itself was resolved
// by the middleware; guests are fine for browsing and preview delivery but
// not for anything that touches the ledger.
func requireAccount(c *fiber.Ctx) (*identity.Viewer, bool) {
	v := middleware.ViewerFromCtx(c)
	if v.IsAnonymous() {
		return nil, false
	}
	return v, true
}

// ListDocuments lists approved documents with limit & offset.
// @Summary List documents
// @Produce json
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument accepts a multipart upload (field name: file) plus title
// and price fields. The document starts in pending moderation state.
// @Summary Upload a document
// @Accept mpfd
// @Produce json
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := requireAccount(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		title := c.FormValue("title")
		if err := validation.Validate(title, validation.Required, validation.Length(1, 200)); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TITLE", "title is required (max 200 chars)")
		}

		price, err := strconv.ParseInt(c.FormValue("price", "0"), 10, 64)
		if err != nil || price < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "price must be a non-negative integer")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), f, service.UploadInput{
			OwnerID:          v.AccountID,
			Title:            title,
			OriginalFilename: fh.Filename,
			ContentType:      ct,
			Size:             fh.Size,
			Price:            price,
		})
		if err != nil {
			return domainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns document metadata by ID.
// @Summary Get document metadata
// @Produce json
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeliverDocument streams the rendered, watermarked document content for
// the calling viewer. Output is viewer-specific, so shared caching is
// forbidden on the response.
// @Summary Deliver document content
// @Produce octet-stream
// @Router /documents/{id}/content [get]
func DeliverDocument(svc service.DeliveryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		v := middleware.ViewerFromCtx(c)
		d, err := svc.Deliver(c.UserContext(), v, id)
		if err != nil {
			return domainError(c, err)
		}

		c.Set(fiber.HeaderCacheControl, "private, no-store")
		c.Set(fiber.HeaderContentType, d.ContentType)
		return c.Send(d.Bytes)
	}
}

// UnlockDocument purchases permanent access to a document.
// @Summary Unlock a document
// @Produce json
// @Router /documents/{id}/unlock [post]
func UnlockDocument(svc service.UnlockService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := requireAccount(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		outcome, err := svc.RequestUnlock(c.UserContext(), v.AccountID, id)
		if err != nil {
			return domainError(c, err)
		}

		switch outcome {
		case service.OutcomeSelfPurchase:
			return writeError(c, fiber.StatusConflict, "SELF_PURCHASE", "cannot purchase your own document")
		case service.OutcomeInsufficientFunds:
			return writeError(c, fiber.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "balance does not cover the price")
		default:
			return c.JSON(fiber.Map{"outcome": outcome})
		}
	}
}

// ToggleLike flips the caller's like on a document.
// @Summary Toggle a like
// @Produce json
// @Router /documents/{id}/like [post]
func ToggleLike(svc service.LikeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := requireAccount(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		res, err := svc.Toggle(c.UserContext(), v.AccountID, id)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(res)
	}
}

// moderateRequest is the body for a moderation decision.
type moderateRequest struct {
	Status string `json:"status"`
}

func (r moderateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(model.StatusApproved),
			string(model.StatusRejected),
			string(model.StatusSuspended),
		)),
	)
}

// ModerateDocument applies an external moderation decision. Admin only.
// @Summary Moderate a document
// @Accept json
// @Produce json
// @Router /documents/{id}/status [post]
func ModerateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := requireAccount(c)
		if !ok || !v.Admin {
			return writeError(c, fiber.StatusForbidden, "ADMIN_REQUIRED", "moderation requires admin")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req moderateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := req.Validate(); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "status must be approved, rejected or suspended")
		}

		if err := svc.Moderate(c.UserContext(), id, model.DocumentStatus(req.Status)); err != nil {
			return domainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteDocument soft-deletes a document. Owner or admin only.
// @Summary Soft-delete a document
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := requireAccount(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return domainError(c, err)
		}
		if doc.OwnerID != v.AccountID && !v.Admin {
			return writeError(c, fiber.StatusForbidden, "ACCESS_DENIED", "access denied")
		}

		if err := svc.SoftDelete(c.UserContext(), id); err != nil {
			return domainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// createAccountRequest is the body for account registration.
type createAccountRequest struct {
	DisplayName string `json:"display_name"`
	Ref         string `json:"ref"`
}

func (r createAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Ref, validation.Required, validation.Length(1, 64)),
	)
}

// CreateAccount registers a new account with zero balance.
// @Summary Create an account
// @Accept json
// @Produce json
// @Router /accounts [post]
func CreateAccount(svc service.LedgerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createAccountRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := req.Validate(); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ACCOUNT", "display_name and ref are required")
		}

		acc, err := svc.CreateAccount(c.UserContext(), req.DisplayName, req.Ref)
		if err != nil {
			return domainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(acc)
	}
}

// GetAccount returns account details. Self or admin only.
// @Summary Get an account
// @Produce json
// @Router /accounts/{id} [get]
func GetAccount(svc service.LedgerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := requireAccount(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if v.AccountID != id && !v.Admin {
			return writeError(c, fiber.StatusForbidden, "ACCESS_DENIED", "access denied")
		}

		acc, err := svc.GetAccount(c.UserContext(), id)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(acc)
	}
}

// topUpRequest is the body for a balance top-up.
type topUpRequest struct {
	Amount int64 `json:"amount"`
}

func (r topUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Required, validation.Min(int64(1))),
	)
}

// TopUpAccount credits an account with purchased credits. Self or admin.
// @Summary Top up an account
// @Accept json
// @Produce json
// @Router /accounts/{id}/topup [post]
func TopUpAccount(svc service.LedgerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := requireAccount(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if v.AccountID != id && !v.Admin {
			return writeError(c, fiber.StatusForbidden, "ACCESS_DENIED", "access denied")
		}

		var req topUpRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := req.Validate(); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AMOUNT", "amount must be positive")
		}

		if err := svc.TopUp(c.UserContext(), id, req.Amount); err != nil {
			return domainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
