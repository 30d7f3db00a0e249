package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	evalinadapter "fieldaudit/internal/modules/evaluation/adapter/in"
	evaloutadapter "fieldaudit/internal/modules/evaluation/adapter/out"
	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	evalin "fieldaudit/internal/modules/evaluation/port/in"
	evalservice "fieldaudit/internal/modules/evaluation/service"
	evalusecase "fieldaudit/internal/modules/evaluation/usecase"
	historyinadapter "fieldaudit/internal/modules/history/adapter/in"
	historyoutadapter "fieldaudit/internal/modules/history/adapter/out"
	historydomain "fieldaudit/internal/modules/history/domain"
	historyout "fieldaudit/internal/modules/history/port/out"
	historyservice "fieldaudit/internal/modules/history/service"
	historyusecase "fieldaudit/internal/modules/history/usecase"
	reportinadapter "fieldaudit/internal/modules/report/adapter/in"
	reportoutadapter "fieldaudit/internal/modules/report/adapter/out"
	reportservice "fieldaudit/internal/modules/report/service"
	reportusecase "fieldaudit/internal/modules/report/usecase"
	"fieldaudit/internal/platform/clock"
	"fieldaudit/internal/platform/config"
	"fieldaudit/internal/platform/id"
	"fieldaudit/internal/platform/logging"
	uiapp "fieldaudit/internal/ui/app"
)

type App struct {
	EvaluationCLI evalinadapter.CLIHandler
	HistoryCLI    historyinadapter.CLIHandler
	ReportCLI     reportinadapter.CLIHandler
	Clock         clock.Clock
	Log           *zap.Logger

	closers []io.Closer
}

type Options struct {
	Verbose bool
	// Logger replaces the file logger built from config; tests pass zap.NewNop().
	Logger *zap.Logger
}

func New(cfg config.Config, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		built, err := logging.New(cfg.LogPath, cfg.Settings.Log.Level, opts.Verbose)
		if err != nil {
			return nil, fmt.Errorf("new logger: %w", err)
		}
		log = built
	}
	clk := clock.SystemClock{}
	registry := evaldomain.NewRegistry(RegistryOptions(cfg.Settings))

	backend, closer, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Clock: clk, Log: log}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	log.Debug("storage ready", zap.String("driver", cfg.Settings.Storage.Driver), zap.String("data_dir", cfg.DataDir))

	historyUC := historyusecase.NewInteractor(historyservice.NewHistoryService(
		clk,
		id.Millis{Prefix: historydomain.IDPrefix},
		backend,
		registry,
		log,
	))
	evaluationUC := evalusecase.NewInteractor(
		evalservice.NewEvaluationService(clk, registry),
		historyUC,
		evaloutadapter.NewFileActiveStore(cfg.ActivePath),
	)
	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(
		clk,
		registry,
		cfg.ExportDir,
		reportoutadapter.NewXLSXWriter(),
		reportoutadapter.NewMarkdownWriter(),
	), historyUC)

	evaluationCLI, err := evalinadapter.NewCLIHandler(evaluationUC, evalin.StartRules{
		AreaCode: evaldomain.NormalizeAreaCode,
		Date:     evaldomain.NormalizeDate,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.EvaluationCLI = evaluationCLI
	app.HistoryCLI = historyinadapter.NewCLIHandler(historyUC)
	app.ReportCLI = reportinadapter.NewCLIHandler(reportUC)
	return app, nil
}

// RegistryOptions maps configured sample counts and ranges onto the category registry.
func RegistryOptions(s config.Settings) evaldomain.RegistryOptions {
	return evaldomain.RegistryOptions{
		SeedlingSamples:     s.Samples.Seedling,
		HoleQualitySamples:  s.Samples.HoleQuality,
		HoleDistanceSamples: s.Samples.HoleDistance,
		Distance: evaldomain.DistanceRanges{
			Street: evaldomain.Range{Min: s.Distance.Street.Min, Max: s.Distance.Street.Max},
			Line:   evaldomain.Range{Min: s.Distance.Line.Min, Max: s.Distance.Line.Max},
		},
	}
}

func newBackend(cfg config.Config) (historyout.Backend, io.Closer, error) {
	switch cfg.Settings.Storage.Driver {
	case config.DriverMemory:
		return historyoutadapter.NewMemoryBackend(), nil, nil
	case config.DriverRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		redis := cfg.Settings.Storage.Redis
		backend, err := historyoutadapter.NewRedisBackend(ctx, historyoutadapter.RedisOptions{
			Addr:     redis.Addr,
			Password: redis.Password,
			DB:       redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("new redis backend: %w", err)
		}
		return backend, backend, nil
	default:
		backend, err := historyoutadapter.NewSQLiteBackend(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("new sqlite backend: %w", err)
		}
		return backend, backend, nil
	}
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	_ = a.Log.Sync()
	return first
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.EvaluationCLI, app.HistoryCLI, app.ReportCLI, app.Clock)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
