package scheduler

import (
	"context"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/qiniu/x/xlog"

	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/repo"
)

// StatusTask marks interviews and meetings COMPLETED once their hour is
// over.
type StatusTask struct {
	interviews repo.InterviewStore
	meetings   repo.MeetingStore
	timeout    time.Duration

	now func() time.Time
	xl  *xlog.Logger
}

func NewStatusTask(interviews repo.InterviewStore, meetings repo.MeetingStore) *StatusTask {
	return &StatusTask{
		interviews: interviews,
		meetings:   meetings,
		timeout:    time.Minute,
		now:        time.Now,
		xl:         xlog.New("status-task"),
	}
}

// Sweep completes everything still SCHEDULED that started more than an
// hour ago and reports how many records changed.
func (t *StatusTask) Sweep(ctx context.Context) (int, error) {
	cutoff := t.now().Add(-domain.MeetingDuration)
	changed := 0

	interviews, err := t.interviews.ListDue(ctx, cutoff)
	if err != nil {
		return changed, err
	}
	for _, in := range interviews {
		if err := t.interviews.UpdateStatus(ctx, in.ID, domain.StatusCompleted); err != nil {
			t.xl.Errorf("complete interview %d: %v", in.ID, err)
			continue
		}
		t.xl.Infof("interview %d scheduled at %s completed", in.ID, in.ScheduledTime.Format(time.RFC3339))
		changed++
	}

	meetings, err := t.meetings.ListDue(ctx, cutoff)
	if err != nil {
		return changed, err
	}
	for _, m := range meetings {
		if err := t.meetings.UpdateStatus(ctx, m.ID, domain.StatusCompleted); err != nil {
			t.xl.Errorf("complete meeting %d: %v", m.ID, err)
			continue
		}
		changed++
	}
	return changed, nil
}

// Run is the gocron entry point.
func (t *StatusTask) Run() {
	t.xl.Infof("status sweep run at %s", t.now().Format(time.RFC3339))
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	n, err := t.Sweep(ctx)
	if err != nil {
		t.xl.Errorf("status sweep: %v", err)
		return
	}
	if n == 0 {
		t.xl.Debug("status sweep found nothing to complete")
	}
}

// Start runs the sweep every everyMinutes minutes on its own scheduler until
// the returned stop function is called.
func (t *StatusTask) Start(everyMinutes uint64) (stop func(), err error) {
	if everyMinutes == 0 {
		everyMinutes = 60
	}
	s := gocron.NewScheduler()
	if err := s.Every(everyMinutes).Minutes().Do(t.Run); err != nil {
		return nil, err
	}
	quit := s.Start()
	return func() {
		s.Clear()
		close(quit)
	}, nil
}
