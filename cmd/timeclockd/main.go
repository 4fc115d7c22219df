package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/w1ngnutt/spf-time/internal/timeclock/mail"
	"github.com/w1ngnutt/spf-time/internal/timeclock/payroll"
	"github.com/w1ngnutt/spf-time/internal/timeclock/report"
	"github.com/w1ngnutt/spf-time/internal/timeclock/rules"
	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
	"github.com/w1ngnutt/spf-time/pkg/config"
	"github.com/w1ngnutt/spf-time/pkg/logger"
)

const (
	sweepInterval        = time.Hour
	notificationInterval = 15 * time.Minute
	reportCheckInterval  = time.Hour
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "timeclockd",
	Short: "Time tracking background daemon",
	Long: `timeclockd runs the background jobs of the time tracking system:
auto-clock-out of expired sessions, break/overtime notifications, and the
scheduled weekly report email.`,
	SilenceUsage: true,
	RunE:         run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New("timeclockd", cfg.Environment)
	log.Info().Msg("starting time tracking daemon")

	db, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Configured names with no store record are created up front.
	if err := db.SyncRoster(ctx, cfg.Employees.Names); err != nil {
		return fmt.Errorf("failed to sync roster: %w", err)
	}

	d := &daemon{
		cfg:    cfg,
		store:  db,
		engine: rules.New(db, cfg.TimeTracking, cfg.Notifications),
		report: report.NewService(db, cfg.Payroll),
		sender: mail.NewSMTPSender(cfg.Email),
		logger: log,
	}

	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()
	notify := time.NewTicker(notificationInterval)
	defer notify.Stop()
	reportCheck := time.NewTicker(reportCheckInterval)
	defer reportCheck.Stop()

	d.sweepExpiredSessions(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("daemon stopped")
			return nil
		case <-sweep.C:
			d.sweepExpiredSessions(ctx)
		case <-notify.C:
			d.checkNotifications(ctx)
		case <-reportCheck.C:
			d.maybeSendReport(ctx)
		}
	}
}

type daemon struct {
	cfg    *config.Config
	store  store.RecordStore
	engine *rules.Engine
	report *report.Service
	sender mail.Sender
	logger *logger.Logger

	lastReportDate time.Time
}

// sweepExpiredSessions closes open sessions older than the configured
// auto-clock-out window.
func (d *daemon) sweepExpiredSessions(ctx context.Context) {
	count, err := d.store.AutoClockOutExpired(ctx, d.cfg.TimeTracking.AutoClockOutHours)
	if err != nil {
		d.logger.Error().Err(err).Msg("auto clock-out sweep failed")
		return
	}
	if count > 0 {
		d.logger.Info().Int64("sessions", count).Msg("auto-clocked out expired sessions")
	}
}

// checkNotifications logs break reminders and overtime warnings for active
// employees. Notifications never block or mutate anything.
func (d *daemon) checkNotifications(ctx context.Context) {
	if !d.cfg.Notifications.EnableBreakReminders && !d.cfg.Notifications.EnableOvertimeAlerts {
		return
	}

	employees, err := d.store.Employees(ctx, true)
	if err != nil {
		d.logger.Error().Err(err).Msg("notification sweep failed")
		return
	}

	today := time.Now()
	for _, emp := range employees {
		if d.cfg.Notifications.EnableBreakReminders {
			due, err := d.engine.NeedsBreakReminder(ctx, emp.ID)
			if err != nil {
				d.logger.WithEmployeeID(emp.ID).Error().Err(err).Msg("break reminder check failed")
			} else if due {
				d.logger.WithEmployeeID(emp.ID).Warn().Str("name", emp.Name).Msg("break reminder due")
			}
		}
		if d.cfg.Notifications.EnableOvertimeAlerts {
			approaching, err := d.engine.OvertimeApproaching(ctx, emp.ID, today)
			if err != nil {
				d.logger.WithEmployeeID(emp.ID).Error().Err(err).Msg("overtime check failed")
			} else if approaching {
				d.logger.WithEmployeeID(emp.ID).Warn().Str("name", emp.Name).Msg("overtime threshold approaching")
			}
		}
	}
}

// maybeSendReport sends the weekly report email once on the configured
// weekday. Delivery failure is logged and retried on the next tick.
func (d *daemon) maybeSendReport(ctx context.Context) {
	if !d.cfg.Email.Enabled {
		return
	}

	now := time.Now()
	today := payroll.Date(now)
	if payroll.Weekday(now) != d.cfg.Email.SendWeekday || today.Equal(d.lastReportDate) {
		return
	}

	log := d.logger.WithRunID(uuid.New().String())

	data, err := d.report.Data(ctx, d.cfg.Email.ReportWeeks)
	if err != nil {
		log.Error().Err(err).Msg("report generation failed")
		return
	}

	csvData, err := report.CSV(data.Records, data.Employees)
	if err != nil {
		log.Error().Err(err).Msg("csv rendering failed")
		return
	}
	tables := report.WeeklyTables(data.Aggregate(d.cfg.Payroll.StartDay))

	msg := mail.BuildReport(d.cfg.Email, data.DateRange(), tables, csvData, now)
	if err := d.sender.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("period", data.DateRange()).Msg("report email delivery failed")
		return
	}

	d.lastReportDate = today
	log.Info().Str("period", data.DateRange()).Int("recipients", len(msg.Recipients)).Msg("report email sent")
}

func main() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to settings.toml")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
