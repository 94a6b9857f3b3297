package report

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/fmsboard/internal/fms"
	"github.com/leapstack-labs/fmsboard/internal/ui/features/common"
	"github.com/leapstack-labs/fmsboard/internal/ui/features/report/pages"
	"github.com/leapstack-labs/fmsboard/internal/ui/resources"
)

// MsgExportFailed is the plain-text body of a failed download.
const MsgExportFailed = "다운로드 중 오류가 발생했습니다."

// Handlers provides HTTP handlers for the FMS feature.
type Handlers struct {
	svc          *fms.Service
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *fms.Service, sessionStore sessions.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{svc: svc, sessionStore: sessionStore, logger: logger}
}

// Result renders the report page. A failed fetch or fold is logged and the
// page renders whatever was gathered.
func (h *Handlers) Result(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Result(r.Context())
	if err != nil {
		h.logger.Error("fms result incomplete", "error", err)
	}

	common.Render(w, r, common.Page{
		Title:   "FMS 결과",
		Flashes: common.ConsumeFlashes(w, r, h.sessionStore, h.logger),
		Scripts: []string{resources.ChartScript, resources.StaticPath("fms.js")},
		Body:    pages.ResultPage(res, h.svc.Columns()),
	})
}

// Export sends the raw table as a CSV attachment.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context())
	if err != nil {
		h.logger.Error("fms export failed", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(MsgExportFailed))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+h.svc.ExportFilename())
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("fms export interrupted", "error", err)
	}
}
