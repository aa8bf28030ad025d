package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"QueueInsight/src/config"
	"QueueInsight/src/datapush"
	"QueueInsight/src/datasource/email"
	"QueueInsight/src/datasource/file"
	"QueueInsight/src/processor"
	"QueueInsight/src/report"
	"QueueInsight/src/storage"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// one-shot batch over the configured export
	if cfg.InputFile != "" {
		runPipeline(cfg.InputFile, cfg, dcfg, logger)
	}

	background := false

	if cfg.Watch {
		background = true
		go watchExports(cfg, dcfg, logger)
	}

	if cfg.Schedule {
		background = true
		c := cron.New()

		interval := time.Duration(cfg.Email.CheckInterval).String()
		cronSpec := fmt.Sprintf("@every %s", interval)

		err = c.AddFunc(cronSpec, func() {
			logger.Info(fmt.Sprintf("scheduled run (interval: %v)...", cronSpec))

			if cfg.Email.Enabled {
				ingestFromMailbox(cfg, dcfg, logger)
			} else if cfg.InputFile != "" {
				runPipeline(cfg.InputFile, cfg, dcfg, logger)
			}
			logger.CheckRotate(cfg)
		})
		if err != nil {
			logger.Error("failed to create scheduled job: " + err.Error())
			return
		}

		c.Start()
		defer c.Stop()
	}

	if !background {
		logger.Close()
		return
	}

	logger.Info("wait-time pipeline running in background mode, Ctrl+C to exit")
	waitForShutdown(logger)
}

// runPipeline executes one full batch: read, clean, derive, report.
func runPipeline(inputPath string, cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) {
	t1 := time.Now()
	logger.Info("processing export " + inputPath)

	df, err := file.ReadExport(inputPath, cfg.SheetName, dcfg.Charset)
	if err != nil {
		logger.Error("read export: " + err.Error())
		return
	}

	records, stats, err := processor.ParseRecords(df, dcfg)
	if err != nil {
		logger.Error("parse export: " + err.Error())
		return
	}
	if stats.RowsDropped > 0 {
		logger.Warning(fmt.Sprintf("dropped %d of %d raw rows", stats.RowsDropped, stats.RowsRead))
	}

	table := processor.NewTable(processor.DeriveAll(records))
	summary := report.Generate(table, stats, inputPath, cfg.OutputDir, logger)

	logger.Info(fmt.Sprintf("run finished: %d read, %d dropped, %d cleaned, %d view failures, took %v",
		summary.RowsRead, summary.RowsDropped, summary.RowsCleaned, len(summary.Failures), time.Since(t1)))

	if cfg.Push.Enabled && cfg.Push.URL != "" {
		pusher := datapush.NewPusher(cfg.Push.URL, cfg.Push.RetryTimes)
		if err := pusher.Push(summary); err != nil {
			logger.Error("summary push failed: " + err.Error())
		}
	}

	if cfg.SendEmail.Enabled && summary.Workbook != "" {
		if err := email.SendReport(cfg, summary.Workbook); err != nil {
			logger.Error("report mail failed: " + err.Error())
		}
	}
}

// watchExports re-runs the pipeline whenever a new export lands in the
// drop directory.
func watchExports(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) {
	monitor, err := file.NewExportMonitor(cfg.DataDir)
	if err != nil {
		logger.Error("export monitor: " + err.Error())
		return
	}
	defer monitor.Close()

	logger.Info("watching " + cfg.DataDir + " for new exports")
	err = monitor.Watch(func(path string) {
		runPipeline(path, cfg, dcfg, logger)
	})
	if err != nil {
		logger.Error("export monitor stopped: " + err.Error())
	}
}

// ingestFromMailbox pulls the latest ops export mail, saves its
// attachments and runs the pipeline over each.
func ingestFromMailbox(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) {
	emailClient := email.NewEmailClient(
		cfg.Email.Server,
		cfg.Email.Username,
		cfg.Email.Password)
	handler := email.NewExportAttachmentHandler(cfg.Email.TargetSubject, cfg.DataDir)

	newEmail, err := email.CheckAndProcessEmails(emailClient, cfg.Email.TargetSubject, logger)
	if err != nil {
		logger.Error("mailbox check failed: " + err.Error())
		return
	}
	if newEmail == nil {
		return
	}

	saved, err := handler.Handle(newEmail, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("mail handling failed (UID:%d): %v", newEmail.UID, err))
		return
	}

	for _, path := range saved {
		runPipeline(path, cfg, dcfg, logger)
	}
}

// waitForShutdown blocks until SIGINT/SIGTERM; SIGHUP reopens the log.
func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigChan {
		switch sig {
		case syscall.SIGHUP:
			filename := "queueinsight." + time.Now().Format("2006-01-02") + ".log"
			logger.Info("received SIGHUP, reopening log as " + filename)
			if err := logger.Reopen(filename); err != nil {
				log.Printf("log reopen failed: %v", err)
			}
		default:
			logger.Info("received signal " + sig.String() + ", shutting down...")
			logger.Close()
			return
		}
	}
}
