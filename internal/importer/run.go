package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"policy-data/internal/repository"
)

// Runner 导入编排器：一次 Start 对应一次完整运行（一个 goroutine、一条独立存储连接）
// 行内错误全部吞在 Processing 阶段；只有连接失败和文件不可读会让整次运行失败
type Runner struct {
	newStore StoreFactory
	logger   *zap.Logger
}

func NewRunner(newStore StoreFactory, logger *zap.Logger) *Runner {
	return &Runner{newStore: newStore, logger: logger}
}

// Start 启动一次后台导入运行，立即返回运行ID和事件通道
// 通道在终态事件之后关闭；调用方不消费也不会阻塞运行（事件条数有限且通道带缓冲）
func (r *Runner) Start(filePath string) (string, <-chan Event) {
	runID := uuid.NewString()
	events := make(chan Event, 16)

	go func() {
		defer close(events)
		r.run(runID, filePath, events)
	}()

	return runID, events
}

func (r *Runner) run(runID, filePath string, events chan<- Event) {
	log := r.logger.With(zap.String("run_id", runID), zap.String("file", filePath))

	// Connecting
	store, err := r.newStore()
	if err != nil {
		log.Error("Import run failed to connect to store", zap.Error(err))
		events <- Event{RunID: runID, Status: StatusError, Message: "Store connection failed.", Error: err.Error()}
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Failed to release store connection", zap.Error(err))
		}
	}()
	events <- Event{RunID: runID, Status: StatusInfo, Message: "Import run connected to store."}

	// Loading
	rows, err := ReadWorkbook(filePath)
	if err != nil {
		log.Error("Import run failed to load workbook", zap.Error(err))
		events <- Event{RunID: runID, Status: StatusError, Message: "Data import failed: source file unreadable.", Error: err.Error()}
		return
	}
	events <- Event{RunID: runID, Status: StatusInfo, Message: fmt.Sprintf("Found %d records. Starting insert...", len(rows))}

	// Processing：严格按源文件顺序，行级失败跳过并继续
	inserted := r.processRows(context.Background(), store, rows, log)

	// Completed
	log.Info("Import run completed", zap.Int("inserted", inserted), zap.Int("rows", len(rows)))
	events <- Event{
		RunID:    runID,
		Status:   StatusSuccess,
		Message:  fmt.Sprintf("Successfully inserted %d records.", inserted),
		Inserted: inserted,
	}
}

func (r *Runner) processRows(ctx context.Context, store *Store, rows []Row, log *zap.Logger) int {
	resolver := NewResolver(store)
	writer := NewWriter(store, log)

	inserted := 0
	for _, row := range rows {
		rec := Normalize(row)

		refs, err := resolver.Resolve(ctx, rec)
		if err != nil {
			if errors.Is(err, ErrNoUserIdentity) {
				// 无任何用户标识：静默跳过，不产生事件
				continue
			}
			log.Error("Error processing row",
				zap.String("policy_number", rec.PolicyLabel()),
				zap.Error(err),
			)
			continue
		}

		if _, err := writer.Write(ctx, refs, rec); err != nil {
			switch {
			case errors.Is(err, ErrMissingReference):
				// Writer 已输出告警
			case errors.Is(err, repository.ErrDuplicatePolicy):
				log.Error("Duplicate policy number, row skipped",
					zap.String("policy_number", rec.PolicyLabel()),
				)
			default:
				log.Error("Error processing row",
					zap.String("policy_number", rec.PolicyLabel()),
					zap.Error(err),
				)
			}
			continue
		}

		inserted++
	}
	return inserted
}
