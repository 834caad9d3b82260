package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/vbonduro/vistoria/internal/auth"
	"github.com/vbonduro/vistoria/internal/checklist"
	"github.com/vbonduro/vistoria/internal/config"
	"github.com/vbonduro/vistoria/internal/db"
	"github.com/vbonduro/vistoria/internal/logging"
	"github.com/vbonduro/vistoria/internal/photostore"
	"github.com/vbonduro/vistoria/internal/photostore/gdrive"
	"github.com/vbonduro/vistoria/internal/photostore/local"
	"github.com/vbonduro/vistoria/internal/report"
	"github.com/vbonduro/vistoria/internal/service"
	"github.com/vbonduro/vistoria/internal/store"
	"github.com/vbonduro/vistoria/internal/vision"
	claudevision "github.com/vbonduro/vistoria/internal/vision/claude"
	ollamavision "github.com/vbonduro/vistoria/internal/vision/ollama"
	"github.com/vbonduro/vistoria/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return
	}

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	catalog, err := checklist.Load()
	if err != nil {
		logger.Error("failed to load checklists", "error", err)
		return
	}
	categories := store.NewCategoryStore(database)
	seeded, err := categories.Seed(context.Background(), catalog.ItemCategories())
	if err != nil {
		logger.Error("failed to seed checklist categories", "error", err)
		return
	}
	if seeded > 0 {
		logger.Info("seeded checklist categories", "rows", seeded)
	}

	photoStg, servePhotos, err := newPhotoStore(cfg)
	if err != nil {
		logger.Error("failed to initialize photo store", "backend", cfg.PhotoBackend, "error", err)
		return
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("failed to load report time zone", "error", err)
		return
	}

	svc := service.NewInspectionService(
		service.Repositories{
			Properties:  store.NewPropertyStore(database),
			Inspections: store.NewInspectionStore(database),
			Rooms:       store.NewRoomStore(database),
			Items:       store.NewItemStore(database),
			Images:      store.NewImageStore(database),
			Categories:  categories,
		},
		photoStg,
		newVisionAnalyzer(cfg, logger),
		catalog,
		report.NewRenderer(report.WithBrand(cfg.ReportBrand), report.WithLocation(loc)),
		logger,
	)

	var served photostore.PhotoStore
	if servePhotos {
		served = photoStg
	}
	server := web.NewServer(svc, auth.NewVerifier(cfg.JWTSecret), served, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newPhotoStore builds the configured blob backend and reports whether this
// process must serve the blobs itself.
func newPhotoStore(cfg *config.Config) (photostore.PhotoStore, bool, error) {
	switch cfg.PhotoBackend {
	case "gdrive":
		s, err := gdrive.New(context.Background(), cfg.GDriveCredentialsFile, cfg.GDriveFolderID)
		return s, false, err
	default:
		s, err := local.NewLocalPhotoStore(cfg.PhotoPath, cfg.PhotoBaseURL)
		return s, true, err
	}
}

func newVisionAnalyzer(cfg *config.Config, logger *slog.Logger) vision.ConditionAnalyzer {
	switch cfg.VisionBackend {
	case "claude":
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel, "")
	case "ollama":
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaAnalyzer(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("condition suggestions disabled")
		return nil
	}
}
