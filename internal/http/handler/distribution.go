package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"donorapi/internal/service"
)

// IngestDistribution accepts a multipart form with file, managerId, candidateIds (JSON array of
// strings) and distributionMethod, and runs one distribution.
//
// @Summary Upload a CSV and distribute its rows
// @Tags distributions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param managerId formData string true "Distributor ID"
// @Param candidateIds formData string true "JSON array of candidate IDs"
// @Param distributionMethod formData string false "equal or random"
// @Success 201 {object} service.IngestResult
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /distributions [post]
func IngestDistribution(svc service.DistributionService, maxBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		candidates, err := parseCandidateIDs(c.FormValue("candidateIds"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CANDIDATE_IDS", "candidateIds must be a JSON array of strings")
		}

		req := service.IngestRequest{
			DistributorID: strings.TrimSpace(c.FormValue("managerId")),
			CandidateIDs:  candidates,
			Policy:        c.FormValue("distributionMethod"),
		}

		// A missing file is left to the service, which reports it with the other missing fields.
		if fh, err := c.FormFile("file"); err == nil {
			if maxBytes > 0 && fh.Size > maxBytes {
				return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds upload limit")
			}
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			var r io.Reader = f
			if maxBytes > 0 {
				r = io.LimitReader(f, maxBytes+1)
			}
			content, err := io.ReadAll(r)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
			}
			if maxBytes > 0 && int64(len(content)) > maxBytes {
				return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds upload limit")
			}

			req.FileName = fh.Filename
			req.ContentType = fh.Header.Get("Content-Type")
			req.Size = fh.Size
			req.Content = content
		}

		res, err := svc.Ingest(c.UserContext(), req)
		if err != nil {
			return writeIngestError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// parseCandidateIDs decodes a JSON array of IDs. An empty value yields no IDs.
func parseCandidateIDs(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListUploads returns upload manifests newest first.
//
// @Summary List uploads
// @Tags uploads
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.UploadListResult
// @Failure 400 {object} errorPayload
// @Router /uploads [get]
func ListUploads(svc service.DistributionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListUploads(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetUpload returns a manifest with its ledger entries and their records.
//
// @Summary Get an upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} model.UploadDetail
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /uploads/{id} [get]
func GetUpload(svc service.DistributionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		detail, err := svc.GetUpload(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "upload not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(detail)
	}
}

// DeleteUpload removes an upload with its ledger entries, records and archived file.
//
// @Summary Delete an upload
// @Tags uploads
// @Param id path string true "Upload ID"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /uploads/{id} [delete]
func DeleteUpload(svc service.DistributionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.DeleteUpload(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "upload not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListCandidateAssignments returns every batch assigned to a candidate, newest first.
//
// @Summary List a candidate's assignments
// @Tags distributions
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {array} model.Assignment
// @Failure 404 {object} errorPayload
// @Router /candidates/{id}/distributions [get]
func ListCandidateAssignments(svc service.DistributionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.ListCandidateAssignments(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no distributions for candidate")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": out})
	}
}
