package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"donorapi/internal/ingest"
	"donorapi/internal/model"
	"donorapi/internal/service"
	serviceMocks "donorapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type formFile struct {
	name    string
	content string
}

func distributionForm(t *testing.T, file *formFile, fields map[string]string) (io.Reader, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if file != nil {
		part, err := writer.CreateFormFile("file", file.name)
		require.NoError(t, err)
		part.Write([]byte(file.content))
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestIngestDistribution(t *testing.T) {
	const csv = "name,email\nAsha,asha@example.org\n"
	fields := map[string]string{
		"managerId":          "mgr-1",
		"candidateIds":       `["c1","c2"]`,
		"distributionMethod": "equal",
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDistributionService)
		app := fiber.New()
		app.Post("/distributions", IngestDistribution(mockSvc, 1024))

		mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(req service.IngestRequest) bool {
			return req.FileName == "donors.csv" &&
				string(req.Content) == csv &&
				req.Size == int64(len(csv)) &&
				req.DistributorID == "mgr-1" &&
				assert.ObjectsAreEqual([]string{"c1", "c2"}, req.CandidateIDs) &&
				req.Policy == "equal"
		})).Return(&service.IngestResult{UploadFileID: "up-1", TotalData: 1, DistributedTo: 2}, nil).Once()

		body, ct := distributionForm(t, &formFile{"donors.csv", csv}, fields)
		req := httptest.NewRequest(http.MethodPost, "/distributions", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result service.IngestResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "up-1", result.UploadFileID)
		assert.Equal(t, 2, result.DistributedTo)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file is reported by the service", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDistributionService)
		app := fiber.New()
		app.Post("/distributions", IngestDistribution(mockSvc, 1024))

		mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(req service.IngestRequest) bool {
			return req.FileName == "" && req.Content == nil
		})).Return(nil, ingest.ErrMissingInput).Once()

		body, ct := distributionForm(t, nil, fields)
		req := httptest.NewRequest(http.MethodPost, "/distributions", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "MISSING_INPUT", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("parse error carries details", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDistributionService)
		app := fiber.New()
		app.Post("/distributions", IngestDistribution(mockSvc, 1024))

		mockSvc.On("Ingest", mock.Anything, mock.Anything).Return(nil, &ingest.Error{
			Kind:    ingest.KindParseError,
			Message: "file parsing error",
			Details: []string{"line 3: too many fields: expected 2 fields but parsed 3"},
		}).Once()

		body, ct := distributionForm(t, &formFile{"donors.csv", csv}, fields)
		req := httptest.NewRequest(http.MethodPost, "/distributions", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "PARSE_ERROR", res.Error.Code)
		assert.Len(t, res.Error.Details, 1)
	})

	t.Run("invalid candidate ids", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDistributionService)
		app := fiber.New()
		app.Post("/distributions", IngestDistribution(mockSvc, 1024))

		body, ct := distributionForm(t, &formFile{"donors.csv", csv}, map[string]string{
			"managerId":    "mgr-1",
			"candidateIds": "c1,c2",
		})
		req := httptest.NewRequest(http.MethodPost, "/distributions", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_CANDIDATE_IDS", res.Error.Code)
		mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
	})

	t.Run("file over limit", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDistributionService)
		app := fiber.New()
		app.Post("/distributions", IngestDistribution(mockSvc, 8))

		body, ct := distributionForm(t, &formFile{"donors.csv", csv}, fields)
		req := httptest.NewRequest(http.MethodPost, "/distributions", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_TOO_LARGE", res.Error.Code)
		mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
	})

	t.Run("persistence failure", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDistributionService)
		app := fiber.New()
		app.Post("/distributions", IngestDistribution(mockSvc, 1024))

		mockSvc.On("Ingest", mock.Anything, mock.Anything).
			Return(nil, ingest.Wrap(ingest.KindPersistenceFailure, "persist distribution", errors.New("db down"))).Once()

		body, ct := distributionForm(t, &formFile{"donors.csv", csv}, fields)
		req := httptest.NewRequest(http.MethodPost, "/distributions", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(raw), "db down")
		assert.Contains(t, string(raw), "PERSISTENCE_FAILURE")
	})
}

func TestListUploads(t *testing.T) {
	mockSvc := new(serviceMocks.MockDistributionService)
	app := fiber.New()
	app.Get("/uploads", ListUploads(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.UploadListResult{
			Items: []model.UploadFile{{ID: uuid.New().String(), FileName: "donors.csv"}},
			Total: 1,
		}
		mockSvc.On("ListUploads", mock.Anything, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/uploads?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.UploadListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/uploads?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/uploads?offset=x", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_OFFSET", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("ListUploads", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/uploads", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetUpload(t *testing.T) {
	mockSvc := new(serviceMocks.MockDistributionService)
	app := fiber.New()
	app.Get("/uploads/:id", GetUpload(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expected := &model.UploadDetail{UploadFile: model.UploadFile{ID: id, FileName: "donors.csv"}}
		mockSvc.On("GetUpload", mock.Anything, id).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/uploads/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.UploadDetail
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("GetUpload", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/uploads/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/uploads/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("GetUpload", mock.Anything, id).Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/uploads/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteUpload(t *testing.T) {
	mockSvc := new(serviceMocks.MockDistributionService)
	app := fiber.New()
	app.Delete("/uploads/:id", DeleteUpload(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DeleteUpload", mock.Anything, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/uploads/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DeleteUpload", mock.Anything, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/uploads/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DeleteUpload", mock.Anything, id).Return(errors.New("delete error")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/uploads/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestListCandidateAssignments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDistributionService)
	app := fiber.New()
	app.Get("/candidates/:id/distributions", ListCandidateAssignments(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("ListCandidateAssignments", mock.Anything, "c1").Return([]model.Assignment{
			{Distribution: model.Distribution{ID: "d1", CandidateID: "c1", RecordIDs: []string{"r1"}},
				Records: []model.DataRecord{{ID: "r1", FullName: "Asha"}}},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/candidates/c1/distributions", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data []model.Assignment `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Asha", body.Data[0].Records[0].FullName)
		mockSvc.AssertExpectations(t)
	})

	t.Run("none", func(t *testing.T) {
		mockSvc.On("ListCandidateAssignments", mock.Anything, "nobody").Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/candidates/nobody/distributions", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestLogCallDetail(t *testing.T) {
	mockSvc := new(serviceMocks.MockCallDetailService)
	app := fiber.New()
	app.Post("/records/:id/call-details", LogCallDetail(mockSvc))

	post := func(id, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/records/"+id+"/call-details", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Log", mock.Anything, id, service.CallDetailInput{
			CandidateID: "c1",
			Status:      "connected",
			CallTime:    "10:30",
			IsScheduled: true,
		}).Return(&model.CallDetail{ID: "cd-1", RecordID: id}, nil).Once()

		resp := post(id, `{"candidateId":"c1","status":"connected","callTime":"10:30","isScheduled":true}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := post(uuid.New().String(), `{`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_BODY", res.Error.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Log", mock.Anything, id, mock.Anything).Return(nil, service.ErrInvalidCallDetail).Once()

		resp := post(id, `{"status":"busy"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_CALL_DETAIL", res.Error.Code)
	})

	t.Run("record not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Log", mock.Anything, id, mock.Anything).Return(nil, service.ErrNotFound).Once()

		resp := post(id, `{"candidateId":"c1","status":"connected","callTime":"10:30"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := post("nope", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListCallDetails(t *testing.T) {
	mockSvc := new(serviceMocks.MockCallDetailService)
	app := fiber.New()
	app.Get("/records/:id/call-details", ListCallDetails(mockSvc))

	id := uuid.New().String()
	mockSvc.On("ListByRecord", mock.Anything, id).Return([]model.CallDetail{{ID: "a"}, {ID: "b"}}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/records/"+id+"/call-details", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []model.CallDetail `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 2)

	other := uuid.New().String()
	mockSvc.On("ListByRecord", mock.Anything, other).Return(nil, service.ErrNotFound).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/records/"+other+"/call-details", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"}))

	RegisterRoutes(app, nil, new(serviceMocks.MockDistributionService), new(serviceMocks.MockCallDetailService), RouteConfig{
		MaxUploadBytes: 1024,
		Gatherer:       reg,
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("health without database", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), "probe_total")
	})
}
