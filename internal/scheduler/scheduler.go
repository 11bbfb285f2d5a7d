package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"KyoteiSentinel/internal/bankroll"
	"KyoteiSentinel/internal/collector"
	"KyoteiSentinel/internal/metrics"
	"KyoteiSentinel/internal/model"
	"KyoteiSentinel/internal/notifier"
	"KyoteiSentinel/internal/report"
	"KyoteiSentinel/internal/settle"
	"KyoteiSentinel/internal/store"
	"KyoteiSentinel/internal/strategy"
)

// reportWindowDays is how far back the daily report looks.
const reportWindowDays = 30

// jst anchors all race-day arithmetic; kyotei runs on Japan time
// wherever the bot is deployed.
var jst = time.FixedZone("JST", 9*60*60)

// Scheduler owns the three cron jobs: the morning betting pass, the
// hourly settlement pass and the evening report.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *strategy.Engine
	Manager   *bankroll.Manager
	Settler   *settle.Settler
	Recorder  store.Recorder
	Notifier  *notifier.TelegramNotifier
	Metrics   *metrics.Recorder
	Log       *zap.Logger
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler running on JST.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *strategy.Engine,
	m *bankroll.Manager, st *settle.Settler, rec store.Recorder,
	tn *notifier.TelegramNotifier, mr *metrics.Recorder, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(jst)),
		Collector: col,
		Engine:    eng,
		Manager:   m,
		Settler:   st,
		Recorder:  rec,
		Notifier:  tn,
		Metrics:   mr,
		Log:       log,
		Ctx:       ctx,
	}
}

// RegisterAll registers the morning, settlement and report jobs.
func (s *Scheduler) RegisterAll(morningCron, settleCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(morningCron, s.guard("morning", s.morningTask)); err != nil {
		return fmt.Errorf("register morning task: %w", err)
	}
	if _, err := s.Cron.AddFunc(settleCron, s.guard("settle", s.settleTask)); err != nil {
		return fmt.Errorf("register settle task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.guard("report", s.reportTask)); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// guard wraps a job with panic recovery so one bad payload cannot kill
// the cron goroutine.
func (s *Scheduler) guard(name string, fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.Log.Error("job panicked", zap.String("job", name), zap.Any("panic", r))
				s.Metrics.Error("scheduler")
			}
		}()
		fn()
	}
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Log.Info("scheduler stopped")
}

// RunOnce executes one job immediately, for manual triggers and
// RUN_ON_START.
func (s *Scheduler) RunOnce(job string) error {
	switch job {
	case "morning":
		s.guard("morning", s.morningTask)()
	case "settle":
		s.guard("settle", s.settleTask)()
	case "report":
		s.guard("report", s.reportTask)()
	default:
		return fmt.Errorf("unknown job %q", job)
	}
	return nil
}

// morningTask runs the full betting pass: collect the card, size the
// day's budget across it and place every viable bet.
func (s *Scheduler) morningTask() {
	now := time.Now().In(jst)
	dateCompact := now.Format("20060102")
	s.Log.Info("running morning task", zap.String("date", dateCompact))

	s.Manager.RollDay(now.Format("2006-01-02"))

	preds, err := s.Collector.Collect(s.Ctx, dateCompact)
	if err != nil {
		s.Log.Error("morning collect", zap.Error(err))
		s.Metrics.Error("collector")
		s.trySend(fmt.Sprintf("❌ 本日の出走表取得に失敗しました: %v", err))
		return
	}

	decisions := s.Engine.EvaluateDay(s.Manager.State(), preds)
	for _, d := range decisions {
		if d.Skipped() {
			s.Log.Debug("race skipped",
				zap.String("race", d.RaceKey), zap.String("reason", d.SkipReason))
			continue
		}
		if err := s.Manager.PlaceBet(d, dateCompact); err != nil {
			s.Log.Warn("place bet", zap.String("race", d.RaceKey), zap.Error(err))
			continue
		}
		for _, leg := range d.Legs {
			s.Metrics.BetPlaced(d.Strategy, string(leg.Type))
		}
	}

	state := s.Manager.State()
	s.Metrics.Bankroll(state.Current, state.DailySpent)
	s.trySend(notifier.FormatDecisionDigest(decisions))
}

// settleTask settles any open bets with published results.
func (s *Scheduler) settleTask() {
	if err := s.Settler.Run(s.Ctx); err != nil {
		s.Log.Error("settlement pass", zap.Error(err))
		s.Metrics.Error("settle")
	}
}

// reportTask builds and sends the daily performance report.
func (s *Scheduler) reportTask() {
	text, err := s.buildReport()
	if err != nil {
		s.Log.Error("build report", zap.Error(err))
		s.Metrics.Error("report")
		return
	}
	s.trySend(text)
}

// buildReport assembles the report from the last 30 days of the
// ledger. Shared with the /report command.
func (s *Scheduler) buildReport() (string, error) {
	now := time.Now().In(jst)
	since := now.AddDate(0, 0, -reportWindowDays).Format("2006-01-02")
	records, err := s.Recorder.History(since)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	byStrategy := make(map[string][]model.InvestmentRecord)
	for _, r := range records {
		byStrategy[r.StrategyName] = append(byStrategy[r.StrategyName], r)
	}
	metricsByStrategy := make(map[string]model.StrategyMetrics, len(byStrategy))
	for name, recs := range byStrategy {
		metricsByStrategy[name] = report.ComputeMetrics(name, recs)
	}

	current := s.Engine.Profile.Name
	rep := model.DailyReport{
		DateStr:     now.Format("2006-01-02"),
		Bankroll:    s.Manager.State(),
		Metrics:     metricsByStrategy[current],
		Calibration: report.Calibration(byStrategy[current]),
		Recommended: report.Recommend(metricsByStrategy),
	}
	if rep.Metrics.Strategy == "" {
		rep.Metrics.Strategy = current
	}
	return notifier.FormatDailyReport(rep), nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatBankrollStatus(s.Manager.State())
	case "/report":
		text, err := s.buildReport()
		if err != nil {
			return fmt.Sprintf("レポート作成に失敗しました: %v", err)
		}
		return text
	case "/help":
		return "利用可能なコマンド:\n• /status — 資金状態\n• /report — 成績レポート\n• /help — このヘルプ"
	default:
		return "不明なコマンドです。/help をお試しください"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error("send notification", zap.Error(err))
		s.Metrics.Error("notifier")
	}
}
