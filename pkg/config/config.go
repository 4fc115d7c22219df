package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/w1ngnutt/spf-time/pkg/errors"
)

// Config holds all configuration for the application. Values are loaded once
// and passed into components by value; nothing reads configuration ambiently.
type Config struct {
	Environment   string              `mapstructure:"environment"`
	Payroll       PayrollConfig       `mapstructure:"payroll"`
	TimeTracking  TimeTrackingConfig  `mapstructure:"time_tracking"`
	Employees     EmployeeConfig      `mapstructure:"employees"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Email         EmailConfig         `mapstructure:"email"`
}

// PayrollConfig defines the payroll week. StartDay uses 0=Monday..6=Sunday.
type PayrollConfig struct {
	StartDay int `mapstructure:"start_day" validate:"min=0,max=6"`
}

// TimeTrackingConfig holds the session rule thresholds.
//
// MinBreakMinutes doubles as the cooldown between sessions and the minimum
// shift length before clock-out is allowed. The two checks intentionally
// share one setting.
type TimeTrackingConfig struct {
	AutoClockOutHours  int `mapstructure:"auto_clock_out_hours" validate:"min=1"`
	MinBreakMinutes    int `mapstructure:"min_break_time_minutes" validate:"min=0"`
	GracePeriodMinutes int `mapstructure:"grace_period_minutes" validate:"min=0"`
}

// EmployeeConfig is the configured roster. Names with no matching store
// record are created on startup.
type EmployeeConfig struct {
	Names []string `mapstructure:"names" validate:"dive,required"`
}

// DatabaseConfig points at the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"db_path" validate:"required"`
}

// NotificationsConfig holds overtime and break reminder thresholds.
type NotificationsConfig struct {
	EnableBreakReminders   bool `mapstructure:"enable_break_reminders"`
	BreakReminderHours     int  `mapstructure:"break_reminder_hours" validate:"min=0"`
	EnableOvertimeAlerts   bool `mapstructure:"enable_overtime_alerts"`
	OvertimeThresholdHours int  `mapstructure:"overtime_threshold_hours" validate:"min=0"`
}

// EmailConfig configures report delivery over SMTP.
type EmailConfig struct {
	Enabled         bool     `mapstructure:"enable_email_reports"`
	SMTPHost        string   `mapstructure:"smtp_host"`
	SMTPPort        int      `mapstructure:"smtp_port" validate:"min=0,max=65535"`
	SMTPUser        string   `mapstructure:"smtp_user"`
	SMTPPassword    string   `mapstructure:"smtp_password"`
	FromEmail       string   `mapstructure:"from_email" validate:"omitempty,email"`
	FromName        string   `mapstructure:"from_name"`
	Recipients      []string `mapstructure:"report_recipients" validate:"dive,email"`
	SubjectTemplate string   `mapstructure:"subject_template"`
	SendWeekday     int      `mapstructure:"send_weekday" validate:"min=0,max=6"`
	ReportWeeks     int      `mapstructure:"report_weeks" validate:"min=1,max=52"`
}

// Subject expands the configured subject template with the report date range.
func (c *EmailConfig) Subject(dateRange string) string {
	return strings.ReplaceAll(c.SubjectTemplate, "{date_range}", dateRange)
}

// Load loads configuration from settings.toml and SPF_TIME_* environment
// variables. A missing settings file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SPF_TIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		// An explicitly named settings file must exist; the CLI reports
		// this separately from generic report failures.
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.ConfigMissing(path)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/spf-time")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks bounds on all configured values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("payroll.start_day", 1)

	v.SetDefault("time_tracking.auto_clock_out_hours", 12)
	v.SetDefault("time_tracking.min_break_time_minutes", 1)
	v.SetDefault("time_tracking.grace_period_minutes", 5)

	v.SetDefault("employees.names", []string{})

	v.SetDefault("database.db_path", "time_tracking.db")

	v.SetDefault("notifications.enable_break_reminders", true)
	v.SetDefault("notifications.break_reminder_hours", 4)
	v.SetDefault("notifications.enable_overtime_alerts", true)
	v.SetDefault("notifications.overtime_threshold_hours", 8)

	v.SetDefault("email.enable_email_reports", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.from_email", "noreply@company.com")
	v.SetDefault("email.from_name", "Time Tracking System")
	v.SetDefault("email.report_recipients", []string{})
	v.SetDefault("email.subject_template", "Time Tracking Report - {date_range}")
	v.SetDefault("email.send_weekday", 1)
	v.SetDefault("email.report_weeks", 1)
}
