package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"ytdub/internal/config"
	"ytdub/internal/jobs"
	"ytdub/internal/pipeline"
	"ytdub/pkg/file"
	"ytdub/pkg/icron"
	"ytdub/pkg/log"
)

// SweepService periodically rescans the output directory for dubbing folders
// that never reached the done stage and re-enqueues them. A folder counts as
// unfinished when its artifacts stop short of the final audio file.
type SweepService struct {
	cfg             config.Config
	queue           *jobs.Queue
	cronExpr        string
	cron            *cron.Cron
	lastTriggerTime time.Time
}

func NewSweepService(cfg config.Config, queue *jobs.Queue, c *cron.Cron) *SweepService {
	return &SweepService{
		cfg:      cfg,
		queue:    queue,
		cronExpr: cfg.Serve.SweepCron,
		cron:     c,
	}
}

var singleflightGroup singleflight.Group

func (s *SweepService) Schedule(ctx context.Context) error {
	log.Info("Run SweepService")

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("sweep", func() (any, error) {
			if err := s.run(ctx); err != nil {
				log.Error("Sweep of %s failed: %v", s.cfg.Output.Dir, err)
			}
			return nil, nil
		})
	}
	_, err := s.cron.AddFunc(s.cronExpr, runFunc)
	return err
}

func (s *SweepService) run(ctx context.Context) error {
	unfinished, err := s.findUnfinishedFolders(ctx)
	if err != nil {
		return err
	}
	log.Info("Found %d unfinished dubbing folders in %s", len(unfinished), s.cfg.Output.Dir)

	for _, folder := range unfinished {
		videoID := folderVideoID(folder)
		if videoID == "" {
			continue
		}
		job, created := s.queue.Enqueue(jobs.EnqueueRequest{
			Source:    "sweep",
			DedupeKey: videoID,
			Payload: jobs.JobPayload{
				URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID),
				VideoID:      videoID,
				OutputFolder: folder,
			},
		})
		if created {
			log.Info("Re-enqueued unfinished folder %s as %s", folder, job.ID)
		}
	}
	s.lastTriggerTime = time.Now()
	return nil
}

func (s *SweepService) findUnfinishedFolders(_ context.Context) ([]string, error) {
	dir := s.cfg.Output.Dir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory %s does not exist", dir)
	}

	startTime, err := s.startTime()
	if err != nil {
		return nil, fmt.Errorf("failed to get start time: %w", err)
	}
	log.Info("Start searching dubbing folders touched after: %v", startTime)

	recentFiles, err := file.FindRecentAfter(dir, startTime)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent files: %w", err)
	}

	// Collect the job folders the recent files belong to. Only direct
	// children of the output dir are job folders.
	seen := make(map[string]bool)
	var folders []string
	for _, filePath := range recentFiles {
		rel, err := filepath.Rel(dir, filePath)
		if err != nil {
			continue
		}
		parts := strings.SplitN(rel, string(filepath.Separator), 2)
		if len(parts) < 2 {
			continue
		}
		folder := filepath.Join(dir, parts[0])
		if seen[folder] {
			continue
		}
		seen[folder] = true

		stage := pipeline.DetectStage(pipeline.NewDirProbe(folder))
		if stage == pipeline.StageDone {
			continue
		}
		// Folders with no artifacts at all are not resumable: the URL
		// cannot be reconstructed without a transcript on disk.
		if stage == pipeline.StageStart {
			continue
		}
		folders = append(folders, folder)
	}
	return folders, nil
}

// folderVideoID recovers the video ID from a job folder named "<id>_<title>".
func folderVideoID(folder string) string {
	base := filepath.Base(folder)
	id, _, ok := strings.Cut(base, "_")
	if !ok {
		return base
	}
	return id
}

func (s *SweepService) startTime() (time.Time, error) {
	if s.lastTriggerTime.IsZero() {
		cronSchedule, err := icron.GetTriggerInfo(s.cronExpr, time.Now())
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to get cron schedule: %w", err)
		}

		if time.Now().Add(-24 * 1 * time.Hour).Before(cronSchedule.Last) {
			return time.Now().Add(-24 * 7 * time.Hour), nil
		}
		return cronSchedule.Last, nil
	}

	return s.lastTriggerTime, nil
}
