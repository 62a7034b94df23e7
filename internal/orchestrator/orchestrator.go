package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/placement/internal/agent"
	"github.com/alexanderramin/placement/internal/config"
	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/scoring"
)

// Initialized is the payload of eventbus.TopicSystemInitialized.
type Initialized struct {
	StartedAt time.Time `json:"startedAt"`
}

// ShuttingDown is the payload of eventbus.TopicSystemShutdown.
type ShuttingDown struct {
	Uptime time.Duration `json:"uptime"`
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver reports every agent operation to obs.
func WithObserver(obs agent.UseCaseObserver) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// Orchestrator is the single entry point the boundary talks to. It owns the
// bus, the registry and the three agents.
type Orchestrator struct {
	cfg      config.Config
	now      func() time.Time
	logger   *slog.Logger
	observer agent.UseCaseObserver

	bus      *eventbus.Bus
	reg      *agent.Registry
	alerts   *agent.AlertStore
	matching *agent.MatchingAgent
	feedback *agent.FeedbackAgent
	coord    *agent.CoordinationAgent

	subs []*eventbus.Subscription

	mu        sync.Mutex
	cond      *sync.Cond
	running   bool
	stopped   bool
	inflight  int
	startedAt time.Time
}

// New validates cfg and builds the engine. Nothing is accepted until Start.
func New(cfg config.Config, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	o := &Orchestrator{
		cfg:    cfg,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.cond = sync.NewCond(&o.mu)

	o.bus = eventbus.New(eventbus.WithLogger(o.logger), eventbus.WithClock(o.now))
	o.reg = agent.NewRegistry()
	o.alerts = agent.NewAlertStore(o.now)
	o.matching = agent.NewMatchingAgent(o.reg, o.bus, agent.MatchingOptions{
		Weights:   weightsFrom(cfg.Scoring),
		Threshold: cfg.Scoring.EligibilityThreshold,
		Limit:     cfg.MatchLimit,
	}, o.now, o.observer)
	o.feedback = agent.NewFeedbackAgent(o.reg, o.alerts, o.bus, cfg.StagnationThreshold, o.now, o.observer)
	o.coord = agent.NewCoordinationAgent(o.reg, o.alerts, o.bus, o.now, o.observer)
	return o, nil
}

func weightsFrom(c config.ScoringConfig) scoring.Weights {
	return scoring.Weights{
		Skill:      c.SkillWeight,
		Academic:   c.AcademicWeight,
		Experience: c.ExperienceWeight,
		Location:   c.LocationWeight,
		Diversity:  c.DiversityBonus,
	}
}

// Start wires the agents to each other and announces the system. Starting a
// running orchestrator is a no-op; a shut down one cannot be restarted.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return domain.ErrSystemNotRunning
	}
	if o.running {
		o.mu.Unlock()
		return nil
	}
	o.subs = append(o.subs,
		o.bus.Subscribe(eventbus.TopicApplicationSubmitted, o.feedback.HandleApplication),
		o.bus.Subscribe(eventbus.TopicMatchesGenerated, o.republishMatches),
		o.bus.Subscribe(eventbus.TopicApplicationSubmitted, o.republishApplication),
	)
	o.running = true
	o.startedAt = o.now()
	startedAt := o.startedAt
	o.mu.Unlock()

	o.logger.InfoContext(ctx, "orchestrator started", "match_limit", o.cfg.MatchLimit,
		"threshold", o.cfg.Scoring.EligibilityThreshold)
	o.bus.Publish(ctx, eventbus.TopicSystemInitialized, Initialized{StartedAt: startedAt})
	return nil
}

func (o *Orchestrator) republishMatches(ctx context.Context, msg eventbus.Message) error {
	p, ok := msg.Payload.(agent.MatchesComputed)
	if !ok {
		return fmt.Errorf("republish: unexpected payload %T on %s", msg.Payload, msg.Topic)
	}
	o.bus.Publish(ctx, eventbus.TopicSystemMatchesGenerated, p.MatchesGenerated)
	return nil
}

func (o *Orchestrator) republishApplication(ctx context.Context, msg eventbus.Message) error {
	p, ok := msg.Payload.(agent.ApplicationRecorded)
	if !ok {
		return fmt.Errorf("republish: unexpected payload %T on %s", msg.Payload, msg.Topic)
	}
	o.bus.Publish(ctx, eventbus.TopicSystemApplicationSubmitted, eventbus.ApplicationSubmitted{
		StudentID:    p.Placement.StudentID,
		InternshipID: p.Placement.InternshipID,
		Score:        p.Placement.Score,
	})
	return nil
}

// Shutdown waits for in-flight calls, announces the shutdown and closes the
// bus. It must not be called from a bus handler.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return nil
	}
	o.running = false
	o.stopped = true
	for o.inflight > 0 {
		o.cond.Wait()
	}
	uptime := o.now().Sub(o.startedAt)
	// Nothing can reach the agents any more; release their state.
	o.reg, o.alerts = nil, nil
	o.matching, o.feedback, o.coord = nil, nil, nil
	o.mu.Unlock()

	o.bus.Publish(ctx, eventbus.TopicSystemShutdown, ShuttingDown{Uptime: uptime})
	for _, s := range o.subs {
		s.Unsubscribe()
	}
	o.bus.Close()
	o.logger.InfoContext(ctx, "orchestrator stopped", "uptime", uptime.String())
	return nil
}

// enter admits a call while running. The returned func must be called when
// the call finishes.
func (o *Orchestrator) enter() (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running {
		return nil, domain.ErrSystemNotRunning
	}
	o.inflight++
	return o.leave, nil
}

func (o *Orchestrator) leave() {
	o.mu.Lock()
	o.inflight--
	if o.inflight == 0 {
		o.cond.Broadcast()
	}
	o.mu.Unlock()
}

// On subscribes an external listener. Subscriptions made after shutdown
// never fire.
func (o *Orchestrator) On(topic eventbus.Topic, h eventbus.Handler) *eventbus.Subscription {
	return o.bus.Subscribe(topic, h)
}

// Bus exposes the event bus to boundary collaborators such as the mirror.
func (o *Orchestrator) Bus() *eventbus.Bus {
	return o.bus
}

func (o *Orchestrator) Config() config.Config {
	return o.cfg
}

func (o *Orchestrator) AddStudent(ctx context.Context, s domain.Student) error {
	done, err := o.enter()
	if err != nil {
		return err
	}
	defer done()
	return o.matching.AddStudent(ctx, s)
}

func (o *Orchestrator) AddInternship(ctx context.Context, in domain.Internship) error {
	done, err := o.enter()
	if err != nil {
		return err
	}
	defer done()
	return o.matching.AddInternship(ctx, in)
}

func (o *Orchestrator) GetMatchesForStudent(ctx context.Context, studentID string) ([]domain.Match, error) {
	done, err := o.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return o.matching.ComputeMatches(ctx, studentID)
}

func (o *Orchestrator) SubmitApplication(ctx context.Context, studentID, internshipID string) (bool, error) {
	done, err := o.enter()
	if err != nil {
		return false, err
	}
	defer done()
	return o.matching.SubmitApplication(ctx, studentID, internshipID)
}

func (o *Orchestrator) UpdateProgress(ctx context.Context, studentID, internshipID string, patch domain.ProgressPatch) (domain.ProgressRecord, error) {
	done, err := o.enter()
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	defer done()
	return o.feedback.UpdateProgress(ctx, studentID, internshipID, patch)
}

func (o *Orchestrator) CompleteMilestone(ctx context.Context, studentID, internshipID, milestoneID, feedback string) error {
	done, err := o.enter()
	if err != nil {
		return err
	}
	defer done()
	return o.feedback.CompleteMilestone(ctx, studentID, internshipID, milestoneID, feedback)
}

func (o *Orchestrator) AddMilestone(ctx context.Context, studentID, internshipID string, m domain.Milestone) error {
	done, err := o.enter()
	if err != nil {
		return err
	}
	defer done()
	return o.feedback.AddMilestone(ctx, studentID, internshipID, m)
}

func (o *Orchestrator) GetProgress(studentID, internshipID string) (domain.ProgressRecord, error) {
	done, err := o.enter()
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	defer done()
	return o.feedback.Progress(studentID, internshipID)
}

func (o *Orchestrator) SubmitFeedback(ctx context.Context, fb domain.Feedback) (string, error) {
	done, err := o.enter()
	if err != nil {
		return "", err
	}
	defer done()
	return o.feedback.SubmitFeedback(ctx, fb)
}

func (o *Orchestrator) SweepStagnation(ctx context.Context) ([]domain.Alert, error) {
	done, err := o.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return o.feedback.SweepStagnation(ctx)
}

func (o *Orchestrator) AddResource(ctx context.Context, r domain.Resource) error {
	done, err := o.enter()
	if err != nil {
		return err
	}
	defer done()
	return o.coord.AddResource(ctx, r)
}

func (o *Orchestrator) ScheduleEvent(ctx context.Context, spec domain.EventSpec) (agent.ScheduleResult, error) {
	done, err := o.enter()
	if err != nil {
		return agent.ScheduleResult{}, err
	}
	defer done()
	return o.coord.ScheduleEvent(ctx, spec)
}

func (o *Orchestrator) CancelEvent(ctx context.Context, eventID string) error {
	done, err := o.enter()
	if err != nil {
		return err
	}
	defer done()
	return o.coord.CancelEvent(ctx, eventID)
}

func (o *Orchestrator) GetUpcomingEvents(participantID string, days int) ([]domain.Event, error) {
	done, err := o.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return o.coord.UpcomingEvents(participantID, days), nil
}

func (o *Orchestrator) GetActiveAlerts(targetID string) ([]domain.Alert, error) {
	done, err := o.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return o.coord.ActiveAlerts(targetID), nil
}

func (o *Orchestrator) ResolveAlert(ctx context.Context, alertID string) error {
	done, err := o.enter()
	if err != nil {
		return err
	}
	defer done()
	return o.coord.ResolveAlert(ctx, alertID)
}

func (o *Orchestrator) ListStudents() ([]domain.Student, error) {
	done, err := o.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return o.reg.Students(), nil
}

func (o *Orchestrator) ListInternships() ([]domain.Internship, error) {
	done, err := o.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return o.reg.Internships(), nil
}
