package service

import (
	"database/sql"
	"runtime"

	"github.com/Azcobu/portdash/internal/database"
)

// Version is the application version reported by the system endpoints.
const Version = "0.1.0"

// SystemService provides system-level information about the application.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// Health checks that the application's dependencies are reachable.
func (s *SystemService) Health() error {
	return database.HealthCheck(s.db)
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

// VersionInfo returns version information for the running build.
func (s *SystemService) VersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
	}
}
