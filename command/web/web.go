package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	cmdimport "fleetlens/command/import"
	"fleetlens/connectors/answer"
	"fleetlens/connectors/config"
	ccsv "fleetlens/connectors/csv"
	"fleetlens/connectors/sheet"
	"fleetlens/connectors/store"
)

// Options wires the server to its collaborators.
type Options struct {
	DataDir        string
	UIDir          string
	MaxUploadBytes int64
	Store          *store.MemoryStore
	Answer         *answer.Client
}

// Run starts the Echo web server exposing the fleet dashboard APIs and an optional SPA.
//
// Usage:
//
//	fleetlens web [-addr :8080] [-data ./data] [-ui ./ui/dist]
//
// Endpoints:
//
//	POST /api/upload              -> multipart fields cost, vehicles, freight, drivers
//	GET  /api/dashboard           -> dashboard of the current upload
//	GET  /api/ask/context         -> ask context of the current upload
//	POST /api/ask                 -> {"question": "...", "context": {...}} streamed answer
//	GET  /api/tables/<table>      -> <data>/<table>.csv written by calculate (404 if missing)
//
// When -ui points to a built Vite app (index.html exists), static files are served at / and
// unknown routes fall back to index.html for SPA routing.
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Server.Addr, "http listen address (host:port)")
	dataDir := fs.String("data", cfg.Data.Dir, "directory containing imported and calculated data")
	uiDir := fs.String("ui", cfg.Server.UIDir, "directory containing built UI (Vite dist)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := store.NewMemoryStore()
	if src, err := sheet.LoadRaw(filepath.Join(*dataDir, cmdimport.RawDir)); err != nil {
		slog.Warn("web.preload.error", "dir", *dataDir, "error", err)
	} else if src.Cost.Len()+src.Freight.Len()+src.Vehicles.Len()+src.Drivers.Len() > 0 {
		snap := st.Replace(src)
		slog.Info("web.preload.done", "snapshot", snap.ID)
	}

	e := NewServer(Options{
		DataDir:        *dataDir,
		UIDir:          *uiDir,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Store:          st,
		Answer: answer.New(answer.Config{
			Endpoint: cfg.Ask.Endpoint,
			Model:    cfg.Ask.Model,
			APIKey:   cfg.Ask.APIKey(),
			Timeout:  cfg.Ask.Timeout,
		}),
	})
	slog.Info("web.start", "addr", *addr, "data", *dataDir, "ui", *uiDir)
	return e.Start(*addr)
}

// NewServer registers every route on a fresh Echo instance.
func NewServer(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	h := &handlers{opts: opts}

	e.POST("/api/upload", h.upload)
	e.GET("/api/dashboard", h.dashboard)
	e.GET("/api/ask/context", h.askContext)
	e.POST("/api/ask", h.ask)

	for name, file := range dashboardTables {
		e.GET("/api/tables/"+name, h.table(file))
	}

	if opts.UIDir != "" {
		mountUI(e, opts.UIDir)
	}
	return e
}

// dashboardTables maps a /api/tables route to the CSV calculate writes.
var dashboardTables = map[string]string{
	"kpis":                ccsv.KPIsFile,
	"revenue_vs_costs":    ccsv.RevenueVsCostsFile,
	"cost_by_truck_type":  ccsv.CostByTruckTypeFile,
	"fuel_efficiency":     ccsv.FuelEfficiencyFile,
	"fuel_trend":          ccsv.FuelTrendFile,
	"maintenance_by_year": ccsv.MaintenanceFile,
	"top_trucks":          ccsv.TopTrucksFile,
}

// mountUI serves a built SPA from dir. Unknown non-API paths get index.html.
func mountUI(e *echo.Echo, dir string) {
	index := filepath.Join(dir, "index.html")
	if fi, err := os.Stat(index); err != nil || fi.IsDir() {
		slog.Warn("web.ui.missing", "index", index)
		return
	}
	e.Static("/", dir)
	e.GET("/", func(c echo.Context) error { return c.File(index) })
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusNotFound && !strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.File(index)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

type handlers struct {
	opts Options
}

// table answers the rows of one dashboard CSV as JSON objects.
func (h *handlers) table(file string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := filepath.Join(h.opts.DataDir, file)
		rows, err := readCSV(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return jsonError(c, http.StatusNotFound, err, "table not calculated yet, run calculate")
		case err != nil:
			slog.Error("web.table.error", "path", path, "error", err)
			return jsonError(c, http.StatusInternalServerError, err, "failed to read table")
		}
		return c.JSON(http.StatusOK, rows)
	}
}

func jsonError(c echo.Context, status int, err error, message string) error {
	return c.JSON(status, map[string]any{
		"error":   err.Error(),
		"message": message,
	})
}

// upload decodes the four multipart files, publishes a new snapshot and
// keeps the raw tables under the data dir so calculate can reuse them.
func (h *handlers) upload(c echo.Context) error {
	req := c.Request()
	if h.opts.MaxUploadBytes > 0 {
		req.Body = http.MaxBytesReader(c.Response(), req.Body, h.opts.MaxUploadBytes)
	}

	payloads := make([]sheet.Payload, 0, len(sheet.SourceNames))
	for _, field := range sheet.SourceNames {
		p, err := formPayload(c, field)
		if err != nil {
			slog.Error("web.upload.error", "field", field, "error", err)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return jsonError(c, http.StatusRequestEntityTooLarge, err, "upload is too large")
			}
			return jsonError(c, http.StatusBadRequest, err, "failed to read upload")
		}
		payloads = append(payloads, p)
	}

	src, err := sheet.DecodeSources(payloads[0], payloads[1], payloads[2], payloads[3])
	if err != nil {
		slog.Error("web.upload.error", "error", err)
		return jsonError(c, http.StatusBadRequest, err, "failed to decode spreadsheet")
	}

	snap := h.opts.Store.Replace(src)
	if h.opts.DataDir != "" {
		if err := sheet.SaveRaw(filepath.Join(h.opts.DataDir, cmdimport.RawDir), src); err != nil {
			slog.Warn("web.upload.persist.error", "error", err)
		}
	}
	slog.Info("web.upload.done", "snapshot", snap.ID,
		"cost", src.Cost.Len(), "vehicles", src.Vehicles.Len(),
		"freight", src.Freight.Len(), "drivers", src.Drivers.Len())

	return c.JSON(http.StatusOK, map[string]any{
		"id":        snap.ID,
		"rowCounts": snap.AskContext.RowCounts,
		"dashboard": snap.Dashboard,
	})
}

func formPayload(c echo.Context, field string) (sheet.Payload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return sheet.Payload{}, nil
		}
		return sheet.Payload{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return sheet.Payload{}, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return sheet.Payload{}, err
	}
	return sheet.Payload{Name: fh.Filename, Data: b}, nil
}

func (h *handlers) dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.opts.Store.Current().Dashboard)
}

func (h *handlers) askContext(c echo.Context) error {
	return c.JSON(http.StatusOK, h.opts.Store.Current().AskContext)
}

type askRequest struct {
	Question string          `json:"question"`
	Context  json.RawMessage `json:"context"`
}

// ask relays a question to the answering service and streams its events
// back. Errors are plain text, mirroring what the service itself returns.
func (h *handlers) ask(c echo.Context) error {
	if h.opts.Answer == nil || !h.opts.Answer.Configured() {
		return c.String(http.StatusInternalServerError, "Missing OPENAI_API_KEY")
	}

	var req askRequest
	body, err := io.ReadAll(c.Request().Body)
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid JSON payload")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return c.String(http.StatusBadRequest, "Question is required.")
	}

	// An absent context means the current upload; an explicit null means none.
	var askCtx any = h.opts.Store.Current().AskContext
	switch {
	case string(req.Context) == "null":
		askCtx = map[string]any{}
	case len(req.Context) > 0:
		askCtx = req.Context
	}

	slog.Info("web.ask.start", "model", h.opts.Answer.Model(), "clientContext", len(req.Context) > 0)
	stream, err := h.opts.Answer.Stream(c.Request().Context(), question, askCtx)
	if err != nil {
		var ue *answer.UpstreamError
		if errors.As(err, &ue) {
			return c.String(ue.Status, ue.Body)
		}
		slog.Error("web.ask.error", "error", err)
		if errors.Is(err, answer.ErrHeaderTimeout) {
			return c.String(http.StatusGatewayTimeout, err.Error())
		}
		return c.String(http.StatusBadGateway, err.Error())
	}
	defer stream.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache, no-transform")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	buf := make([]byte, 4096)
	for {
		n, rerr := stream.Read(buf)
		if n > 0 {
			if _, werr := res.Write(buf[:n]); werr != nil {
				return nil
			}
			res.Flush()
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				slog.Warn("web.ask.stream.error", "error", rerr)
			}
			return nil
		}
	}
}

// readCSV returns the data rows of a CSV keyed by the header row. Cells
// stay strings.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	rows := []map[string]string{}
	if len(records) < 2 {
		return rows, nil
	}
	header := records[0]
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for j, name := range header {
			if j < len(rec) {
				row[name] = rec[j]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
