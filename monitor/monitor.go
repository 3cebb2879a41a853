package monitor

import (
	"time"

	"conference-management-api/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorPage mounts a minimal status page plus a JSON endpoint
// used by the uptime checker.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor/status", func(c *gin.Context) {
		dbOK := false
		if config.DB != nil {
			if sqlDB, err := config.DB.DB(); err == nil {
				dbOK = sqlDB.Ping() == nil
			}
		}
		c.JSON(200, gin.H{
			"uptime_seconds": int(time.Since(startedAt).Seconds()),
			"database":       dbOK,
		})
	})

	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Conference API Monitor</title>
  <style>
    body { background: #111; color: #e0e0e0; font-family: sans-serif; padding: 40px; }
    .card { background: #1c1c1c; border-radius: 8px; padding: 24px; max-width: 480px; }
    .ok { color: #4caf50; }
    .bad { color: #f44336; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Conference API</h1>
    <p>Uptime: <span id="uptime">-</span>s</p>
    <p>Database: <span id="db">-</span></p>
  </div>
  <script>
    fetch('/monitor/status').then(r => r.json()).then(s => {
      document.getElementById('uptime').textContent = s.uptime_seconds;
      const db = document.getElementById('db');
      db.textContent = s.database ? 'connected' : 'unreachable';
      db.className = s.database ? 'ok' : 'bad';
    });
  </script>
</body>
</html>`))
	})
}
