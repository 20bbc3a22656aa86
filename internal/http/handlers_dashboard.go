package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"greep/internal/core"
	"greep/internal/export"
)

// Imports may carry whole collections, so they get a roomier cap than
// regular request bodies.
const maxImportBytes = 10 << 20

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.DashboardStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.tracker.MonthlyReport(r.Context(), month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleExportReport streams the monthly report as a download.
// Query: format (csv|xlsx, default csv), section (csv only).
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.tracker.MonthlyReport(r.Context(), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "xlsx":
		f, err := export.BuildMonthlyWorkbook(report)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.xlsx", month))
		if err := f.Write(w); err != nil {
			// Headers are gone already, all we can do is log
			slog.ErrorContext(r.Context(), "Failed to stream workbook", "error", err)
		}
	case "csv", "":
		section := r.URL.Query().Get("section")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.csv", month))
		if err := export.WriteMonthlyCSV(w, report, section); err != nil {
			writeError(w, r, err)
		}
	default:
		writeError(w, r, fmt.Errorf("%w: unknown format %q", errBadRequest, format))
	}
}

// handleImportBackup restores records from an uploaded backup. CSV bodies
// carry one collection recognized by its header row; JSON bodies carry a full
// backup document. The body format follows the Content-Type.
func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	body := io.LimitReader(r.Body, maxImportBytes)

	var (
		set export.ImportSet
		err error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		set, err = export.ParseImportJSON(body)
	} else {
		set, err = export.ParseImportCSV(body)
	}
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	summary, err := s.tracker.ImportBackup(r.Context(), set, OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleExportBackup streams every collection as one CSV download.
func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := s.tracker.Backup(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=backup.csv")
	if err := export.WriteBackupCSV(w, backup); err != nil {
		writeError(w, r, err)
	}
}
