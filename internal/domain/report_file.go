package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// reportStampLength is len("oil_xls_YYYYMMDDHHMMSS").
	reportStampLength = 22
	reportExtension   = ".xls"
)

// ReportFile is one published spreadsheet of a single trading day.
type ReportFile struct {
	RemoteURL    string
	LocalName    string
	EmbeddedDate time.Time
}

// NewReportFile maps a report URL to its local file name and trading date.
func NewReportFile(remoteURL string) (ReportFile, error) {
	if len(remoteURL) < reportStampLength {
		return ReportFile{}, fmt.Errorf("report url too short: %s", remoteURL)
	}

	date, err := DateFromStamp(remoteURL)
	if err != nil {
		return ReportFile{}, err
	}

	return ReportFile{
		RemoteURL:    remoteURL,
		LocalName:    remoteURL[len(remoteURL)-reportStampLength:] + reportExtension,
		EmbeddedDate: date,
	}, nil
}

// DateFromStamp reads the trading date from a value ending in YYYYMMDDHHMMSS.
func DateFromStamp(value string) (time.Time, error) {
	if len(value) < 14 {
		return time.Time{}, fmt.Errorf("no date stamp in %q", value)
	}
	n := len(value)
	day, err := time.Parse("20060102", value[n-14:n-6])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date stamp of %q: %w", value, err)
	}
	return day, nil
}

// DateFromFileName reads the trading date from a local report name (oil_xls_YYYYMMDDHHMMSS.xls).
func DateFromFileName(name string) (time.Time, error) {
	return DateFromStamp(strings.TrimSuffix(name, reportExtension))
}

// IsReportFileName reports whether a local file looks like a downloaded report.
func IsReportFileName(name string) bool {
	if !strings.HasSuffix(name, reportExtension) {
		return false
	}
	_, err := DateFromFileName(name)
	return err == nil
}
