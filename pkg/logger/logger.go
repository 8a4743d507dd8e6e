package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogBookingCreated logs when a booking is created
func (l *Logger) LogBookingCreated(ctx context.Context, bookingRef, showtimeID string, seats []string) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_reference", bookingRef),
		slog.String("showtime_id", showtimeID),
		slog.Any("seats", seats),
	)
}

// LogBookingConfirmed logs when a booking payment is confirmed
func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingRef string) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("booking_reference", bookingRef),
	)
}

// LogBookingCancelled logs when a booking is cancelled or rejected
func (l *Logger) LogBookingCancelled(ctx context.Context, bookingRef, reason string) {
	l.Logger.InfoContext(ctx,
		"Booking Cancelled",
		slog.String("booking_reference", bookingRef),
		slog.String("reason", reason),
	)
}

// LogSeatConflict logs a rejected booking attempt over already-held seats
func (l *Logger) LogSeatConflict(ctx context.Context, showtimeID string, seats []string) {
	l.Logger.WarnContext(ctx,
		"Seat Conflict",
		slog.String("showtime_id", showtimeID),
		slog.Any("conflicting_seats", seats),
	)
}

// LogTicketVerified logs a successful gate check-in
func (l *Logger) LogTicketVerified(ctx context.Context, bookingRef string) {
	l.Logger.InfoContext(ctx,
		"Ticket Verified",
		slog.String("booking_reference", bookingRef),
	)
}

// LogTicketRejected logs a failed verification attempt
func (l *Logger) LogTicketRejected(ctx context.Context, bookingRef, reason string) {
	l.Logger.WarnContext(ctx,
		"Ticket Rejected",
		slog.String("booking_reference", bookingRef),
		slog.String("reason", reason),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
