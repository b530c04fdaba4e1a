package service

import (
	"context"
	"database/sql"
	"time"

	"eldercare-data/internal/repository"

	"go.uber.org/zap"
)

// AuditLogProcessor 审计日志归档器：周期性把 temp_audit_logs 搬运到 audit_logs。
// 数据库触发器只写暂存表，归档由本进程负责，避免业务事务里做重写放大。
type AuditLogProcessor struct {
	db        *sql.DB
	logs      repository.AuditLogsRepository
	interval  time.Duration
	batchSize int
	logger    *zap.Logger
}

func NewAuditLogProcessor(db *sql.DB, logs repository.AuditLogsRepository, interval time.Duration, batchSize int, logger *zap.Logger) *AuditLogProcessor {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &AuditLogProcessor{
		db:        db,
		logs:      logs,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run 阻塞运行直到 ctx 取消。每轮连续搬运直到暂存表清空，然后休眠 interval。
func (p *AuditLogProcessor) Run(ctx context.Context) error {
	p.logger.Info("audit log processor started",
		zap.Duration("interval", p.interval),
		zap.Int("batch_size", p.batchSize))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.drainAll(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("audit log drain failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			p.logger.Info("audit log processor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// DrainOnce 搬运一批，返回搬运行数。供命令行和测试直接调用。
func (p *AuditLogProcessor) DrainOnce(ctx context.Context) (int, error) {
	return p.logs.DrainTempLogs(ctx, p.db, p.batchSize)
}

func (p *AuditLogProcessor) drainAll(ctx context.Context) error {
	total := 0
	for {
		n, err := p.logs.DrainTempLogs(ctx, p.db, p.batchSize)
		if err != nil {
			return err
		}
		total += n
		if n < p.batchSize {
			break
		}
	}
	if total > 0 {
		p.logger.Info("audit logs archived", zap.Int("count", total))
	}
	return nil
}
