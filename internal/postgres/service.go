package postgres

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

// ServiceEntry represents a PostgreSQL service configuration
type ServiceEntry struct {
	Name     string
	Host     string
	Port     string
	DBName   string
	User     string
	Password string
	SSLMode  string
	Options  map[string]string
}

// ParsePGServiceFile parses the first pg_service.conf found in the standard locations
func ParsePGServiceFile() ([]ServiceEntry, error) {
	for _, path := range getPGServicePaths() {
		if _, err := os.Stat(path); err == nil {
			return ParsePGServiceFileAt(path)
		}
	}
	return nil, fmt.Errorf("no pg_service.conf found in standard locations")
}

// getPGServicePaths returns possible pg_service.conf locations
func getPGServicePaths() []string {
	var paths []string

	// Check PGSERVICEFILE env var first
	if envPath := os.Getenv("PGSERVICEFILE"); envPath != "" {
		paths = append(paths, envPath)
	}
	// User's home directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".pg_service.conf"))
	}

	// System-wide locations
	paths = append(paths, "/etc/pg_service.conf", "/etc/postgresql-common/pg_service.conf")

	return paths
}

// ParsePGServiceFileAt parses the pg_service.conf file at path
func ParsePGServiceFileAt(path string) ([]ServiceEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var services []ServiceEntry
	var current *ServiceEntry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Check for service header [servicename]
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if current != nil {
				services = append(services, *current)
			}
			current = &ServiceEntry{
				Name:    strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"),
				Options: make(map[string]string),
			}
			continue
		}

		// key=value pairs outside a section are ignored
		if current == nil {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "host":
			current.Host = value
		case "port":
			current.Port = value
		case "dbname":
			current.DBName = value
		case "user":
			current.User = value
		case "password":
			current.Password = value
		case "sslmode":
			current.SSLMode = value
		default:
			current.Options[key] = value
		}
	}

	// Don't forget the last service
	if current != nil {
		services = append(services, *current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return services, nil
}

// ConnectionString returns a lib/pq keyword/value connection string for the service.
// Extra options are appended in key order so the result is stable.
func (s *ServiceEntry) ConnectionString() string {
	var parts []string

	add := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", key, value))
		}
	}
	add("host", s.Host)
	add("port", s.Port)
	add("dbname", s.DBName)
	add("user", s.User)
	add("password", s.Password)
	if s.SSLMode != "" {
		add("sslmode", s.SSLMode)
	} else {
		parts = append(parts, "sslmode=prefer")
	}

	keys := make([]string, 0, len(s.Options))
	for k := range s.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, s.Options[k])
	}

	return strings.Join(parts, " ")
}

// Connect opens a database handle for this service and verifies it with a ping
func (s *ServiceEntry) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", s.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open service %q: %w", s.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to service %q: %w", s.Name, err)
	}
	return db, nil
}

// TestConnection checks that the service accepts connections
func (s *ServiceEntry) TestConnection(ctx context.Context) error {
	db, err := s.Connect(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

// GetServiceByName finds a service by name from the list
func GetServiceByName(services []ServiceEntry, name string) (*ServiceEntry, error) {
	for i := range services {
		if services[i].Name == name {
			return &services[i], nil
		}
	}
	return nil, fmt.Errorf("service '%s' not found", name)
}

// LookupService parses the service file and returns the named entry
func LookupService(name string) (*ServiceEntry, error) {
	services, err := ParsePGServiceFile()
	if err != nil {
		return nil, err
	}
	return GetServiceByName(services, name)
}
