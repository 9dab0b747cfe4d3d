package version

import (
	"fmt"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/satishbabariya/litedb/internal/sqlite"
)

var (
	// Version is the version of the CLI
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
	Driver    string

	// Engine is the SQLite library version; nil when not probed.
	Engine *goversion.Version
	// Returning reports whether Engine supports RETURNING clauses.
	Returning bool
}

// Get returns version information without engine details.
func Get() Info {
	driver := sqlite.GetInfo()
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Driver:    fmt.Sprintf("%s (%s)", driver.Package, driver.DriverType),
	}
}

// WithEngine records the SQLite version and whether it reaches minReturning.
func (i Info) WithEngine(engine, minReturning *goversion.Version) Info {
	i.Engine = engine
	i.Returning = engine != nil && engine.GreaterThanOrEqual(minReturning)
	return i
}

// Semver parses the CLI version.
func (i Info) Semver() (*goversion.Version, error) {
	v, err := goversion.NewVersion(strings.TrimPrefix(i.Version, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version format: %w", err)
	}
	return v, nil
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("litedb version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// Fields returns the detailed version information as ordered key/value pairs.
func (i Info) Fields() [][2]string {
	fields := [][2]string{
		{"Version", i.Version},
		{"Build Date", i.BuildDate},
		{"Git Commit", i.GitCommit},
		{"Platform", i.Platform},
		{"Go Version", i.GoVersion},
		{"Driver", i.Driver},
	}
	if i.Engine != nil {
		fields = append(fields,
			[2]string{"SQLite", i.Engine.String()},
			[2]string{"RETURNING", fmt.Sprintf("%t", i.Returning)},
		)
	}
	return fields
}
