package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/asaidimu/go-gridview/core/grid"
	"github.com/asaidimu/go-gridview/export"
	"github.com/asaidimu/go-gridview/server/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleQuery is the parameter-submission endpoint: it normalizes the flat
// form-field mapping, executes the report's stored procedure, loads the
// session with the materialized result, and returns the column descriptor
// feed the client uses to render its filter widgets.
func (s *Service) handleQuery(c *gin.Context) {
	kind := c.Param("kind")
	schema, ok := s.schemas[kind]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report kind: " + kind})
		return
	}

	values := map[string]any{}
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed parameter submission: " + err.Error()})
		return
	}

	session := s.session(c)
	start := time.Now()
	s.emit(grid.NewEvent(grid.QueryStart, kind, session.ID))

	result, err := s.executor.Run(c.Request.Context(), schema, values)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(kind, "error").Inc()
		s.emit(grid.NewEvent(grid.QueryFailed, kind, session.ID).WithError(err).WithDuration(start))
		s.logger.Error("Report query failed", zap.String("report", kind), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	columns := session.Load(kind, result, s.infer)
	metrics.QueriesTotal.WithLabelValues(kind, "success").Inc()
	s.emit(grid.NewEvent(grid.QuerySuccess, kind, session.ID).WithRows(result.NumRows()).WithDuration(start))

	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"rows":    result.NumRows(),
	})
}

// handleRows serves one row-window request against the session's table.
func (s *Service) handleRows(c *gin.Context) {
	var req grid.RowWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed row request: " + err.Error()})
		return
	}

	session := s.session(c)
	resp, skips, err := session.Rows(s.engine, &req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	for _, skip := range skips {
		metrics.FilterSkipsTotal.Inc()
		s.emit(grid.NewEvent(grid.FilterSkipped, session.Report(), session.ID).WithColumn(skip.Column).WithError(skip))
	}

	c.JSON(http.StatusOK, resp)
}

// handleColumns replays the column descriptor feed of the current table.
func (s *Service) handleColumns(c *gin.Context) {
	session := s.session(c)
	columns := session.Columns()
	if columns == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no query has been run"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// handleExport downloads the current view as a spreadsheet. With nothing to
// export the endpoint answers 204: a no-op, not a failure.
func (s *Service) handleExport(c *gin.Context) {
	session := s.session(c)
	kind, view, ok := session.CurrentView()
	if kind == "" {
		kind = c.Param("kind")
	}

	start := time.Now()
	s.emit(grid.NewEvent(grid.ExportStart, kind, session.ID))
	if !ok {
		metrics.ExportsTotal.WithLabelValues(kind, "empty").Inc()
		s.emit(grid.NewEvent(grid.ExportEmpty, kind, session.ID))
		c.Status(http.StatusNoContent)
		return
	}

	filename, data, err := s.exporter.Export(kind, view)
	if err != nil {
		var empty *export.EmptyExportError
		if errors.As(err, &empty) {
			metrics.ExportsTotal.WithLabelValues(kind, "empty").Inc()
			s.emit(grid.NewEvent(grid.ExportEmpty, kind, session.ID))
			c.Status(http.StatusNoContent)
			return
		}
		metrics.ExportsTotal.WithLabelValues(kind, "error").Inc()
		s.emit(grid.NewEvent(grid.ExportFailed, kind, session.ID).WithError(err).WithDuration(start))
		s.logger.Error("Export failed", zap.String("report", kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.ExportsTotal.WithLabelValues(kind, "success").Inc()
	s.emit(grid.NewEvent(grid.ExportSuccess, kind, session.ID).WithRows(view.Len()).WithDuration(start))

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
