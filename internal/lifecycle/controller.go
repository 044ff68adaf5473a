package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
	"github.com/jask/appshell/internal/urlresolve"
)

// Gate resolves once the environment allows startup to continue.
type Gate interface {
	Await(ctx context.Context) <-chan struct{}
}

// Actions creates the lifecycle and navigation actions dispatched on the
// container. Their effects belong to the registered reducers and
// middleware.
type Actions struct {
	WillMount   func(app route.App) store.Action
	WillUnmount func(app route.App) store.Action
	Navigate    func(url string) store.Action
}

// RenderState is what the host presents.
type RenderState struct {
	Ready bool
	Route route.Route
	// Props are the pass-through fields for the active view.
	Props map[string]any
}

// Presentable reports whether there is a view to show.
func (r RenderState) Presentable() bool {
	return r.Ready && r.Route.Kind() == route.KindComponent
}

// Config wires a Controller.
type Config struct {
	Props      Props
	Gate       Gate
	Factory    ContainerFactory
	Resolver   urlresolve.Resolver
	Actions    Actions
	Redirector route.Redirector
	Log        logrus.FieldLogger
	// OnChange is called after Ready flips, after every committed route
	// change and after every props update.
	OnChange func(RenderState)
}

type propsTask struct {
	prev, next Props
	done       chan struct{}
}

// Controller owns the application state: readiness, the current route
// and the container.
type Controller struct {
	id       string
	gate     Gate
	factory  ContainerFactory
	resolver urlresolve.Resolver
	actions  Actions
	onChange func(RenderState)
	log      logrus.FieldLogger

	nav    *route.Navigator
	q      *queue
	ctx    context.Context
	cancel context.CancelFunc

	// mountMu orders container creation and the mount dispatch against
	// Deactivate, so an unmount never precedes its mount.
	mountMu sync.Mutex

	mu          sync.Mutex
	props       Props
	container   *store.Store
	ready       bool
	activation  chan struct{}
	settled     bool
	cancelled   bool
	deactivated bool
	closed      bool
	parked      []propsTask
}

// New returns an inactive controller.
func New(cfg Config) *Controller {
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	id := uuid.NewString()
	log = log.WithField("app", id)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		id:       id,
		gate:     cfg.Gate,
		factory:  cfg.Factory,
		resolver: cfg.Resolver,
		actions:  cfg.Actions,
		onChange: cfg.OnChange,
		log:      log,
		nav:      route.NewNavigator(cfg.Redirector, log),
		q:        newQueue(),
		ctx:      ctx,
		cancel:   cancel,
		props:    cfg.Props,
	}
	c.nav.OnCommit(func(route.Route) { c.notify() })
	return c
}

// ID identifies this controller instance in mount notifications.
func (c *Controller) ID() string { return c.id }

// SetRoute transitions the current route. See route.Navigator.SetRoute.
func (c *Controller) SetRoute(r route.Route) <-chan struct{} {
	return c.nav.SetRoute(r)
}

// Activate starts the activation sequence. The returned channel closes
// once the sequence completed or was cancelled. Calling it again returns
// the same channel; after Close it returns a closed channel.
func (c *Controller) Activate() <-chan struct{} {
	c.mu.Lock()
	if c.closed && c.activation == nil {
		c.mu.Unlock()
		return closedChan()
	}
	if c.activation != nil {
		done := c.activation
		c.mu.Unlock()
		return done
	}
	done := make(chan struct{})
	c.activation = done
	c.mu.Unlock()

	gateDone := closedChan()
	if c.gate != nil {
		gateDone = c.gate.Await(c.ctx)
	}
	go func() {
		select {
		case <-gateDone:
		case <-c.ctx.Done():
		}
		posted := c.q.post(func() {
			defer close(done)
			c.completeActivation()
		})
		if !posted {
			c.mu.Lock()
			c.settleLocked()
			c.mu.Unlock()
			close(done)
		}
	}()
	return done
}

func (c *Controller) completeActivation() {
	s, ok := c.mount()
	if !ok {
		c.log.Info("activation cancelled before the container was created")
		return
	}

	c.mu.Lock()
	c.ready = true
	props := c.props
	cancelled := c.cancelled
	c.mu.Unlock()
	c.notify()
	c.log.Debug("app ready")

	if !cancelled {
		c.openURL(c.resolver.Target(props.URL, props.DefaultURL, s.GetState()))
	}

	c.mu.Lock()
	parked := c.parked
	c.parked = nil
	c.settled = true
	c.mu.Unlock()
	for _, t := range parked {
		c.runProps(t)
	}
}

// mount creates the container and announces the mount. It reports false
// when a Deactivate got there first.
func (c *Controller) mount() (*store.Store, bool) {
	c.mountMu.Lock()
	defer c.mountMu.Unlock()

	c.mu.Lock()
	if c.cancelled {
		c.settleLocked()
		c.mu.Unlock()
		return nil, false
	}
	if c.container != nil {
		c.mu.Unlock()
		panic(&PreconditionError{Op: "activate", Err: ErrContainerExists})
	}
	c.mu.Unlock()

	s := c.factory.Create()

	c.mu.Lock()
	c.container = s
	c.mu.Unlock()

	if c.actions.WillMount != nil {
		s.Dispatch(c.actions.WillMount(c))
	}
	return s, true
}

// settleLocked finishes a cancelled activation. Parked props changes are
// released without running.
func (c *Controller) settleLocked() {
	for _, t := range c.parked {
		close(t.done)
	}
	c.parked = nil
	c.settled = true
}

// SetProps records next as the current props and handles the change
// from the previous ones.
func (c *Controller) SetProps(next Props) <-chan struct{} {
	c.mu.Lock()
	prev := c.props
	c.mu.Unlock()
	return c.OnPropsChanged(prev, next)
}

// OnPropsChanged navigates when the resolved URL or the timestamp changed
// between prev and next. It always runs after activation completed, in
// call order. The returned channel closes once the change was handled.
func (c *Controller) OnPropsChanged(prev, next Props) <-chan struct{} {
	c.mu.Lock()
	c.props = next
	c.mu.Unlock()
	c.notify()

	t := propsTask{prev: prev, next: next, done: make(chan struct{})}
	posted := c.q.post(func() {
		c.mu.Lock()
		if !c.settled {
			c.parked = append(c.parked, t)
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.runProps(t)
	})
	if !posted {
		close(t.done)
	}
	return t.done
}

func (c *Controller) runProps(t propsTask) {
	defer close(t.done)

	c.mu.Lock()
	s := c.container
	cancelled := c.cancelled
	c.mu.Unlock()
	if cancelled || s == nil {
		return
	}

	nextURL := c.resolver.Resolve(t.next.URL)
	prevURL := c.resolver.Resolve(t.prev.URL)
	if nextURL == prevURL && sameTimestamp(t.prev.Timestamp, t.next.Timestamp) {
		return
	}
	target := nextURL
	if target == "" {
		target = c.resolver.Default(t.next.DefaultURL, s.GetState())
	}
	c.openURL(target)
}

// Deactivate announces the unmount on the container, once. Without a
// container it returns a PreconditionError wrapping ErrNoContainer. In
// both cases a still-pending activation is cancelled and will not
// dispatch anything. It does not wait on the storage gate, but a call
// that lands while the container is being created blocks until the
// mount was dispatched, which includes the persisted-state read.
func (c *Controller) Deactivate() error {
	c.mountMu.Lock()
	defer c.mountMu.Unlock()

	c.mu.Lock()
	c.cancelled = true
	s := c.container
	already := c.deactivated
	c.deactivated = true
	c.mu.Unlock()
	c.cancel()

	if s == nil {
		c.log.Error("deactivate before the container exists")
		return &PreconditionError{Op: "deactivate", Err: ErrNoContainer}
	}
	if already {
		return nil
	}
	if c.actions.WillUnmount != nil {
		s.Dispatch(c.actions.WillUnmount(c))
	}
	return nil
}

// Close cancels the controller and stops its queue. Queued work still
// runs as cancelled, and every channel handed out by Activate or
// OnPropsChanged closes, including ones requested after Close.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelled = true
	c.closed = true
	c.settleLocked()
	c.mu.Unlock()
	c.cancel()
	c.q.close()
}

// Render returns what the host should present.
func (c *Controller) Render() RenderState {
	c.mu.Lock()
	ready := c.ready
	extra := c.props.PassThrough()
	c.mu.Unlock()
	return RenderState{Ready: ready, Route: c.nav.Current(), Props: extra}
}

// Props returns the current props.
func (c *Controller) Props() Props {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props
}

// Container returns the container once activation created it.
func (c *Controller) Container() (*store.Store, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.container, c.container != nil
}

// openURL dispatches the navigate action. Reaching it without a
// container is a sequencing bug and panics.
func (c *Controller) openURL(url string) {
	s, ok := c.Container()
	if !ok {
		panic(&PreconditionError{Op: "openURL", Err: ErrNoContainer})
	}
	if c.actions.Navigate == nil {
		return
	}
	c.log.WithField("url", url).Info("opening url")
	s.Dispatch(c.actions.Navigate(url))
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.Render())
	}
}
