package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"resumetwin/internal/analysis"
	"resumetwin/internal/document"
	"resumetwin/internal/errors"
	"resumetwin/internal/observability"
	"resumetwin/internal/storage"
	"resumetwin/internal/types"
)

const (
	uploadFormField   = "resume"
	multipartMemory   = 32 << 20
	uploadSuccessText = "Resume uploaded and parsed!"
	emailSuccessText  = "Email sent successfully!"
	reportMissingText = "PDF not found"
)

// createUploadHandler parses an uploaded resume, stores it and returns the
// ATS result with matching career twins.
func (s *Server) createUploadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.upload")
		defer span.End()
		metrics := om.GetMetrics()

		upload, err := readUpload(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.writeAppError(w, err)
			return
		}

		doc, err := document.Extract(upload.name, upload.contentType, upload.data)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, observability.MetricResumeParsed, false, om)
			s.writeAppError(w, err)
			return
		}
		metrics.RecordDocumentSize(ctx, string(doc.Kind), len(upload.data), om)

		ext := strings.ToLower(filepath.Ext(upload.name))
		key := storage.ResumeKey(time.Now(), ext)
		if err := s.Store.Put(ctx, key, upload.data, upload.contentType); err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		result, err := s.Analyzer.AnalyzeText(ctx, doc.Text, doc.ImageCount)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, observability.MetricResumeParsed, false, om,
				attribute.String("format", string(doc.Kind)))
			s.writeAppError(w, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricResumeParsed, true, om,
			attribute.String("format", string(doc.Kind)))
		metrics.RecordAnalysis(ctx, result.ATSResult.Score, len(result.CareerTwins), om)
		span.SetAttributes(
			attribute.String("document.kind", string(doc.Kind)),
			attribute.Int("document.images", doc.ImageCount),
			attribute.Int("ats.score", result.ATSResult.Score),
			attribute.Int("career_twins", len(result.CareerTwins)),
		)

		writeJSON(w, http.StatusOK, types.UploadResponse{
			Message:     uploadSuccessText,
			ResumeText:  preview(doc.Text, s.AppConfig.App.PreviewLength),
			ATSResult:   result.ATSResult,
			CareerTwins: result.CareerTwins,
			UploadID:    strings.TrimSuffix(path.Base(key), ext),
		})
	}
}

// createDownloadReportHandler renders the ATS report PDF, keeps a copy for
// the email endpoint and streams it back as an attachment.
func (s *Server) createDownloadReportHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.download_report")
		defer span.End()
		metrics := om.GetMetrics()

		var req types.ReportRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid report request", err.Error(), http.StatusBadRequest)
			return
		}

		pdf, err := s.Reports.Generate(req)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, observability.MetricReport, false, om)
			s.writeAppError(w, err)
			return
		}

		reportID := s.storeReport(ctx, pdf)

		metrics.RecordBusinessMetric(ctx, observability.MetricReport, true, om)
		span.SetAttributes(attribute.Int("report.size", len(pdf)), attribute.Int("ats.score", req.Score))

		fileName := s.AppConfig.Report.FileName
		if fileName == "" {
			fileName = "ats_report.pdf"
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		if reportID != "" {
			w.Header().Set("X-Report-ID", reportID)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdf); err != nil {
			span.RecordError(err)
		}
	}
}

// storeReport keeps pdf under a new report ID and as the latest report. It
// returns the ID, or "" when the by-ID copy could not be stored; the
// download itself is never failed by storage.
func (s *Server) storeReport(ctx context.Context, pdf []byte) string {
	reportID := uuid.NewString()
	if err := s.Store.Put(ctx, storage.ReportKey(reportID), pdf, "application/pdf"); err != nil {
		s.Logger.LogError(err, "Failed to store generated report", "report_id", reportID)
		return ""
	}
	if err := s.Store.Put(ctx, storage.LatestReportKey, pdf, "application/pdf"); err != nil {
		s.Logger.LogError(err, "Failed to update latest report", "report_id", reportID)
	}
	return reportID
}

// createSendEmailHandler mails a stored report, the latest one unless a
// report_id is given.
func (s *Server) createSendEmailHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.send_email")
		defer span.End()
		metrics := om.GetMetrics()

		var req types.EmailRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid email request", err.Error(), http.StatusBadRequest)
			return
		}

		key := storage.LatestReportKey
		if req.ReportID != "" {
			key = storage.ReportKey(req.ReportID)
		}

		pdf, err := s.Store.Get(ctx, key)
		if err != nil {
			span.RecordError(err)
			if errors.IsType(err, errors.ErrorTypeNotFound) {
				writeErrorResponse(w, http.StatusText(http.StatusNotFound), reportMissingText, http.StatusNotFound)
				return
			}
			s.writeAppError(w, err)
			return
		}

		if err := s.Mailer.SendReport(ctx, req.Email, pdf); err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, observability.MetricEmail, false, om)
			s.writeAppError(w, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricEmail, true, om)
		writeJSON(w, http.StatusOK, types.MessageResponse{Message: emailSuccessText})
	}
}

// createSuggestSkillsHandler compares resume skills with a job role.
func (s *Server) createSuggestSkillsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.suggest_skills")
		defer span.End()
		metrics := om.GetMetrics()

		var req types.SkillGapRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid skill request", err.Error(), http.StatusBadRequest)
			return
		}

		gap, err := s.Analyzer.SuggestSkills(ctx, req.ResumeText, req.JobRole)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, observability.MetricSkillGap, false, om)
			s.writeAppError(w, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricSkillGap, true, om,
			attribute.String("job_role", req.JobRole))
		span.SetAttributes(
			attribute.String("job_role", req.JobRole),
			attribute.Int("matched", len(gap.MatchedSkills)),
			attribute.Int("suggested", len(gap.SuggestedSkills)),
		)
		writeJSON(w, http.StatusOK, gap)
	}
}

// createGrowthPathHandler finds the first roadmap path the resume supports.
func (s *Server) createGrowthPathHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.growth_path")
		defer span.End()
		metrics := om.GetMetrics()

		var req types.GrowthPathRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		growth, err := s.Analyzer.GrowthPath(ctx, req.ResumeText)
		if err != nil {
			if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrCodeGrowthPathNotFound {
				metrics.RecordBusinessMetric(ctx, observability.MetricGrowthPath, true, om, attribute.Bool("found", false))
				writeJSON(w, http.StatusNotFound, types.MessageResponse{Message: analysis.NoGrowthPathMessage})
				return
			}
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, observability.MetricGrowthPath, false, om)
			s.writeAppError(w, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricGrowthPath, true, om, attribute.Bool("found", true))
		span.SetAttributes(attribute.String("career_path", growth.CareerPath))
		writeJSON(w, http.StatusOK, growth)
	}
}

// createRolesHandler lists the job roles of the skills database.
func (s *Server) createRolesHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.roles")
		defer span.End()

		roles, err := s.Analyzer.Roles(ctx)
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.RolesResponse{Roles: roles})
	}
}

type uploadedFile struct {
	name        string
	contentType string
	data        []byte
}

// readUpload pulls the resume part out of a multipart request.
func readUpload(r *http.Request) (*uploadedFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("File too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "No file part", err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		// a part sent with an empty filename is kept as a plain form value
		if _, present := r.MultipartForm.Value[uploadFormField]; present {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "No selected file", err)
		}
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "No file part", err)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "No selected file", nil)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to read uploaded file", err)
	}

	return &uploadedFile{
		name:        filepath.Base(header.Filename),
		contentType: header.Header.Get("Content-Type"),
		data:        data,
	}, nil
}

// preview returns the first n characters of text; n <= 0 keeps it all.
func preview(text string, n int) string {
	if n <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
