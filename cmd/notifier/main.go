// file: cmd/notifier/main.go

package main

import (
	"KintoneAlert/internal/adapter/recordsource"
	"KintoneAlert/internal/core/domain"
	"KintoneAlert/internal/observe"
	"KintoneAlert/internal/pluginconfig"
	"KintoneAlert/internal/service/message"
	"KintoneAlert/internal/service/metacache"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const version = "v0.3.0"

type NotifierConfig struct {
	LogLevel         string `mapstructure:"log_level"`
	MetricsAddr      string `mapstructure:"metrics_addr"`
	PluginConfigPath string `mapstructure:"plugin_config_path"`
	DataFile         string `mapstructure:"data_file"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
	IntervalSeconds  int    `mapstructure:"interval_seconds"`
}

type Config struct {
	Notifier NotifierConfig `mapstructure:"notifier"`
}

// seedFile 是演练数据文件的布局：每个应用带一组记录。
type seedFile struct {
	Apps []struct {
		AppID   string          `json:"appId"`
		Name    string          `json:"name"`
		Records []domain.Record `json:"records"`
	} `json:"apps"`
}

func main() {
	// 在日志系统完全初始化前，使用标准 log
	log.Printf("KintoneAlert Notifier %s 正在启动...", version)

	configFilePath := os.Getenv("KINTONE_ALERT_CONFIG")
	if configFilePath == "" {
		configFilePath = "configs/config.yaml"
	}
	viper.SetConfigFile(configFilePath)
	viper.SetDefault("notifier.log_level", "INFO")
	viper.SetDefault("notifier.plugin_config_path", "configs/plugin.json")
	viper.SetDefault("notifier.fetch_concurrency", 4)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("CRITICAL: 读取配置文件 '%s' 失败: %v", configFilePath, err)
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("CRITICAL: 解析配置到结构体失败: %v", err)
	}

	observe.InitLogger(config.Notifier.LogLevel)
	slog.Info("KintoneAlert Notifier starting up", "version", version)
	slog.Info("配置加载并解析成功", "path", configFilePath)

	observe.Register()
	observe.ServeMetrics(config.Notifier.MetricsAddr)

	// 记录来源：默认为内存实现，供演练运行；
	// 接入真实平台时由集成方注入自己的 RecordSource 实现。
	source := recordsource.NewMemory()
	if config.Notifier.DataFile != "" {
		if err := seedFromFile(source, config.Notifier.DataFile); err != nil {
			log.Fatalf("CRITICAL: 灌入演练数据失败: %v", err)
		}
	}

	meta, err := metacache.New(source, 1000, 5*time.Minute)
	if err != nil {
		slog.Error("初始化元数据缓存失败", "error", err)
		os.Exit(1)
	}
	if apps, err := meta.Apps(context.Background()); err == nil {
		slog.Info("服务层: 元数据缓存初始化完成", "apps", len(apps))
	}

	snapshot, err := pluginconfig.Load(config.Notifier.PluginConfigPath)
	if err != nil {
		log.Fatalf("CRITICAL: 装载插件配置失败: %v", err)
	}
	slog.Info("插件配置装载完成", "settings", len(snapshot.Settings))

	var mu sync.Mutex
	svc, err := message.New(snapshot, source, config.Notifier.FetchConcurrency)
	if err != nil {
		slog.Error("初始化 MessageService 失败", "error", err)
		os.Exit(1)
	}

	// 监视插件配置文件，变更后热加载快照并重建服务。
	if err := watchPluginConfig(config.Notifier, source, &mu, &svc); err != nil {
		slog.Warn("配置文件监视器未能启动，热加载不可用", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	runCycle := func() {
		mu.Lock()
		current := svc
		mu.Unlock()
		pairs := current.FetchRecordsFromSettings(ctx)
		fmt.Println(current.AlertMessage(pairs))
	}

	runCycle()
	if config.Notifier.IntervalSeconds <= 0 {
		slog.Info("单次运行完成，程序即将退出。")
		return
	}

	ticker := time.NewTicker(time.Duration(config.Notifier.IntervalSeconds) * time.Second)
	defer ticker.Stop()
	slog.Info("进入周期运行模式", "interval_seconds", config.Notifier.IntervalSeconds)
	for {
		select {
		case <-ticker.C:
			runCycle()
		case <-quit:
			slog.Info("收到停机信号，程序即将退出。")
			cancel()
			return
		}
	}
}

// seedFromFile 从 JSON 数据文件向内存实现灌入应用与记录。
func seedFromFile(source *recordsource.Memory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取数据文件 '%s' 失败: %w", path, err)
	}
	var seeds seedFile
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("解析数据文件 '%s' 失败: %w", path, err)
	}
	for _, app := range seeds.Apps {
		source.Seed(app.AppID, app.Name, app.Records)
		slog.Info("演练数据已灌入", "app_id", app.AppID, "records", len(app.Records))
	}
	return nil
}

// watchPluginConfig 启动文件监视器，插件配置变更后热加载。
func watchPluginConfig(cfg NotifierConfig, source *recordsource.Memory, mu *sync.Mutex, svc **message.Service) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建 fsnotify watcher 失败: %w", err)
	}
	if err := watcher.Add(cfg.PluginConfigPath); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("添加 '%s' 到监视器失败: %w", cfg.PluginConfigPath, err)
	}

	go func() {
		defer watcher.Close()
		slog.Info("插件配置监视 goroutine 已启动", "path", cfg.PluginConfigPath)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					slog.Warn("配置监视器事件通道已关闭")
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				snapshot, err := pluginconfig.Load(cfg.PluginConfigPath)
				if err != nil {
					slog.Error("热加载插件配置失败，沿用旧快照", "error", err)
					continue
				}
				next, err := message.New(snapshot, source, cfg.FetchConcurrency)
				if err != nil {
					slog.Error("重建 MessageService 失败，沿用旧实例", "error", err)
					continue
				}
				mu.Lock()
				*svc = next
				mu.Unlock()
				slog.Info("插件配置已热加载", "settings", len(snapshot.Settings))
			case errWatch, ok := <-watcher.Errors:
				if !ok {
					slog.Warn("配置监视器错误通道已关闭")
					return
				}
				slog.Error("配置监视器报告错误", "error", errWatch)
			}
		}
	}()
	return nil
}
