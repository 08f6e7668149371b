package metrics

import (
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RegisterDBStats 导出连接池统计，同名库重复注册视为成功
func RegisterDBStats(db *sql.DB, dbName string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, dbName))
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return nil
	}
	return err
}
