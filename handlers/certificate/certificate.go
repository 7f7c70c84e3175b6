package certificate

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
	"github.com/learnsphere/academy-api/services"
	"github.com/learnsphere/academy-api/utils/middleware"
	"github.com/learnsphere/academy-api/utils/response"
	"github.com/learnsphere/academy-api/utils/storage"
)

// downloadURLExpiry bounds how long a presigned certificate link stays valid.
const downloadURLExpiry = 15 * time.Minute

// CertificateHandler serves lookup, verification, sharing and download of
// issued certificates. Verification and per-course listing are public;
// everything touching "my certificates" requires auth plus ownership.
type CertificateHandler struct {
	certificates *services.CertificateService
	spaces       *storage.SpacesClient // nil when object storage is not configured
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certificates *services.CertificateService, spaces *storage.SpacesClient) *CertificateHandler {
	return &CertificateHandler{
		certificates: certificates,
		spaces:       spaces,
	}
}

// ListForUser returns the caller's certificates.
func (h *CertificateHandler) ListForUser(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	certs, err := h.certificates.ListForUser(user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load certificates")
	}

	return response.Success(c, certs)
}

// GetByID returns one certificate. Certificates are public records; anyone
// holding the id may read it.
func (h *CertificateHandler) GetByID(c *fiber.Ctx) error {
	cert, err := h.certificates.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Certificate not found")
		}
		return response.InternalServerError(c, "Failed to load certificate")
	}

	return response.Success(c, cert)
}

// Verify reports existence without exposing the record itself.
func (h *CertificateHandler) Verify(c *fiber.Ctx) error {
	id := c.Params("id")
	valid, err := h.certificates.Verify(id)
	if err != nil {
		return response.InternalServerError(c, "Failed to verify certificate")
	}

	return response.Success(c, fiber.Map{
		"certificate_id": id,
		"valid":          valid,
	})
}

// Share renders the share text for one of the caller's certificates.
func (h *CertificateHandler) Share(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	cert, err := h.ownedCertificate(c, user.ID)
	if cert == nil {
		return err
	}

	return response.Success(c, fiber.Map{
		"certificate_id": cert.ID,
		"share_text":     h.certificates.FormatForSharing(cert),
	})
}

// ByCourse returns every certificate issued for a course.
func (h *CertificateHandler) ByCourse(c *fiber.Ctx) error {
	certs, err := h.certificates.GetByCourse(c.Params("course_id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to load certificates")
	}

	return response.Success(c, certs)
}

// maxArtifactSize caps uploaded certificate documents at 5 MB.
const maxArtifactSize = 5 * 1024 * 1024

// ownedCertificate loads a certificate and enforces ownership.
func (h *CertificateHandler) ownedCertificate(c *fiber.Ctx, userID uint) (*model.Certificate, error) {
	cert, err := h.certificates.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, response.NotFound(c, "Certificate not found")
		}
		return nil, response.InternalServerError(c, "Failed to load certificate")
	}
	if cert.UserID != userID {
		return nil, response.Forbidden(c, "Certificate belongs to a different user")
	}
	return cert, nil
}

// UploadArtifact stores the rendered certificate document. Rendering happens
// on the client; the API only keeps the result for later downloads.
func (h *CertificateHandler) UploadArtifact(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if h.spaces == nil {
		return response.ServiceUnavailable(c, "Certificate storage is not configured")
	}

	cert, err := h.ownedCertificate(c, user.ID)
	if cert == nil {
		return err
	}

	body := c.Body()
	if len(body) == 0 {
		return response.BadRequest(c, "Certificate document is required")
	}
	if len(body) > maxArtifactSize {
		return response.BadRequest(c, "Certificate document is too large")
	}

	if err := h.spaces.UploadCertificate(c.Context(), cert.ID, body); err != nil {
		return response.InternalServerError(c, "Failed to store certificate document")
	}

	return response.SuccessWithMessage(c, "Certificate document stored", fiber.Map{
		"certificate_id": cert.ID,
	})
}

// DownloadURL presigns a time-limited link to the rendered certificate in
// object storage. Returns 503 when storage is not configured.
func (h *CertificateHandler) DownloadURL(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if h.spaces == nil {
		return response.ServiceUnavailable(c, "Certificate downloads are not configured")
	}

	cert, err := h.ownedCertificate(c, user.ID)
	if cert == nil {
		return err
	}

	exists, err := h.spaces.HasCertificate(c.Context(), cert.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check certificate document")
	}
	if !exists {
		return response.NotFound(c, "Certificate document has not been uploaded yet")
	}

	url, err := h.spaces.PresignedDownloadURL(cert.ID, downloadURLExpiry)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate download link")
	}

	return response.Success(c, fiber.Map{
		"certificate_id": cert.ID,
		"download_url":   url,
		"expires_in":     int(downloadURLExpiry.Seconds()),
	})
}
