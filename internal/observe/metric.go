// Package observe 暴露 Prometheus 指标
package observe

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义
var (
	FetchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kintonealert_fetch_total",
		Help: "发起的取数次数",
	})
	FetchFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kintonealert_fetch_failed_total",
		Help: "失败后降级为空结果的取数次数",
	})
	RecordsFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kintonealert_records_fetched_total",
		Help: "累计取回的记录条数",
	})
	MessagesGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kintonealert_messages_generated_total",
		Help: "生成的非空通知消息数",
	})
)

// Register 必须在 main 调用一次
func Register() {
	prometheus.MustRegister(FetchTotal, FetchFailed, RecordsFetched, MessagesGenerated)
}

// Handler 返回 HTTP 处理器
func Handler() http.Handler { return promhttp.Handler() }

// ServeMetrics 在指定地址上暴露 /metrics 端点。
// addr 为空时不启动监听。
func ServeMetrics(addr string) {
	if addr == "" {
		slog.Info("metrics endpoint is disabled because address is empty")
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		slog.Info("Starting metrics endpoint", "address", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("Failed to start metrics endpoint", "error", err)
		}
	}()
}
