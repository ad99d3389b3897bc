package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Sales.MaxPerLine)
	assert.Equal(t, 3, cfg.Sales.MaxPerOrder)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, "invoicing.events", cfg.MQ.Exchange)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n  path: shop.db\n")
	t.Setenv("BOOKSTORE_SALES_MAX_PER_ORDER", "5")
	t.Setenv("BOOKSTORE_DATABASE_PATH", "override.db")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Sales.MaxPerOrder)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "override.db", cfg.Database.DSN())
}

func TestLoadFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"端口非法", "server:\n  port: 70000\n"},
		{"驱动不支持", "database:\n  driver: oracle\n"},
		{"限购为0", "sales:\n  max_per_line: 0\n"},
		{"生产环境默认密钥", "server:\n  mode: release\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	mysql := DatabaseConfig{
		Driver: DriverMySQL, Host: "db", Port: 3306, User: "root", Password: "pw",
		DBName: "invoicing", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/invoicing?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", mysql.DSN())

	pg := DatabaseConfig{
		Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p",
		DBName: "invoicing", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=invoicing sslmode=disable", pg.DSN())
}
