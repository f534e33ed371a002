// room/room.go
package room

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/snake/ai"
	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/logger"
	"github.com/wfunc/snake/network"
	"github.com/wfunc/snake/services"
	"github.com/wfunc/snake/session"
)

const (
	defaultEventBuffer  = 64
	defaultTickInterval = 100 * time.Millisecond
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// Config 单个房间的游戏设置
type Config struct {
	Options      game.Options
	TickInterval time.Duration
	// AIMode 由 Strategy 驱动, 玩家输入被忽略
	AIMode   bool
	Strategy ai.Strategy
	// EventBuffer 事件队列长度, 满了之后丢弃
	EventBuffer int
}

// Deps 房间共享的外部组件, 除 Scheduler 外都可以为 nil
type Deps struct {
	Scheduler   Scheduler
	Broadcaster Broadcaster
	Recorder    Recorder
	Metrics     Metrics
}

// update 一次操作之后需要推送的内容
type update struct {
	events []game.Event
	snap   game.Snapshot
}

// Room 承载一个游戏引擎, 所有输入、tick 和重开都串行执行
type Room struct {
	ID        string
	CreatedAt time.Time

	cfg    Config
	deps   Deps
	engine *game.Engine

	mu         sync.Mutex // 保护 engine 以及以下字段
	timerID    int64
	generation uint64
	pending    []game.Event
	closed     bool

	updates chan update
	wg      sync.WaitGroup

	players     map[string]*session.Session // sessionID -> session
	playerMutex sync.RWMutex
}

// NewRoom 创建房间, id 为空时生成 uuid. players 在第一次推送之前加入,
// 自动开始的房间也能收到开局消息
func NewRoom(id string, cfg Config, deps Deps, players ...*session.Session) (*Room, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.AIMode {
		if cfg.Strategy == nil {
			cfg.Strategy = ai.Greedy{}
		}
		cfg.Options.AutoStart = true
	}

	r := &Room{
		ID:        id,
		CreatedAt: time.Now(),
		cfg:       cfg,
		deps:      deps,
		updates:   make(chan update, cfg.EventBuffer),
		players:   make(map[string]*session.Session),
	}

	engine, err := game.NewEngine(cfg.Options, game.ListenerFunc(r.onEvent))
	if err != nil {
		return nil, err
	}
	r.engine = engine

	for _, p := range players {
		r.AddPlayer(p)
	}

	r.wg.Add(1)
	go r.dispatch()

	r.mu.Lock()
	r.afterChange()
	r.mu.Unlock()
	return r, nil
}

// Submit 玩家方向输入, AI 模式下忽略
func (r *Room) Submit(d game.Direction) bool {
	if r.cfg.AIMode {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	ok := r.engine.Submit(d)
	if ok {
		r.afterChange()
	}
	return ok
}

// Restart 重新开始, 旧的 tick 定时器先被取消
func (r *Room) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.stopTimer()
	r.engine.Restart()
	r.afterChange()
}

func (r *Room) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Snapshot()
}

func (r *Room) Status() game.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Status()
}

func (r *Room) AIMode() bool {
	return r.cfg.AIMode
}

// Close 停止 tick 并关闭事件队列, 不等待已排队的推送
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.stopTimer()
	close(r.updates)
}

// Wait 等待事件分发和游戏记录全部完成, 需要先 Close
func (r *Room) Wait() {
	r.wg.Wait()
}

// onTick 由定时器回调, generation 不一致说明定时器已被取消
func (r *Room) onTick(generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || generation != r.generation {
		return
	}

	start := time.Now()
	out := r.engine.Tick()
	r.deps.Metrics.ObserveTick(time.Since(start))
	if !out.Ticked {
		return
	}
	r.afterChange()
}

// afterChange 在持有 mu 时调用: 驱动 AI、同步定时器、推送、记录
func (r *Room) afterChange() {
	if r.cfg.AIMode && r.engine.Status() == game.Running {
		r.engine.Submit(r.cfg.Strategy.NextMove(r.engine.Snapshot()))
	}

	status := r.engine.Status()
	if status == game.Running {
		r.startTimer()
	} else {
		r.stopTimer()
	}

	snap := r.engine.Snapshot()
	r.publish(snap)

	if status.Terminal() && r.hasEvent(game.EventGameOver, game.EventWin) {
		r.record(snap)
	}
	r.pending = r.pending[:0]
}

func (r *Room) startTimer() {
	if r.timerID != 0 || r.deps.Scheduler == nil {
		return
	}
	r.generation++
	generation := r.generation
	interval := r.cfg.TickInterval
	r.timerID = r.deps.Scheduler.AddTimer(interval, interval, func() {
		r.onTick(generation)
	})
}

func (r *Room) stopTimer() {
	if r.timerID == 0 {
		return
	}
	r.deps.Scheduler.RemoveTimer(r.timerID)
	r.timerID = 0
	r.generation++
}

func (r *Room) onEvent(ev game.Event) {
	r.pending = append(r.pending, ev)
}

func (r *Room) hasEvent(kinds ...game.EventKind) bool {
	for _, ev := range r.pending {
		for _, k := range kinds {
			if ev.Kind == k {
				return true
			}
		}
	}
	return false
}

// publish 不阻塞 tick, 队列满时丢弃
func (r *Room) publish(snap game.Snapshot) {
	u := update{snap: snap}
	if len(r.pending) > 0 {
		u.events = append([]game.Event(nil), r.pending...)
	}
	select {
	case r.updates <- u:
	default:
		logger.Log.Warnf("Room %s event queue full, dropped update for tick %d", r.ID, snap.Tick)
	}
}

func (r *Room) record(snap game.Snapshot) {
	if r.deps.Recorder == nil {
		return
	}
	res := services.GameResult{
		RoomID:   r.ID,
		Snapshot: snap,
		AIMode:   r.cfg.AIMode,
		Immortal: r.cfg.Options.Immortal,
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.deps.Recorder.RecordGame(res); err != nil {
			logger.Log.Errorf("Room %s failed to record game: %v", r.ID, err)
		}
	}()
}

// dispatch 把更新推给房间内的会话并上报指标
func (r *Room) dispatch() {
	defer r.wg.Done()
	for u := range r.updates {
		for _, ev := range u.events {
			r.report(ev)
		}
		if r.deps.Broadcaster == nil {
			continue
		}
		r.broadcast(network.MsgTypeSnapshot, u.snap)
		for _, ev := range u.events {
			r.broadcast(network.MsgTypeEvent, ev)
			switch ev.Kind {
			case game.EventStarted:
				r.broadcast(network.MsgTypeGameStart, network.GameStartPayload{
					RoomID: r.ID,
					Width:  u.snap.Width,
					Height: u.snap.Height,
				})
			case game.EventGameOver, game.EventWin:
				r.broadcast(network.MsgTypeGameEnd, network.GameEndPayload{
					RoomID:  r.ID,
					Outcome: u.snap.Status,
					Score:   u.snap.Score,
					Length:  len(u.snap.Snake),
					Elapsed: game.FormatElapsed(u.snap.Elapsed),
				})
			}
		}
	}
}

func (r *Room) report(ev game.Event) {
	switch ev.Kind {
	case game.EventFoodEaten:
		r.deps.Metrics.IncFoodEaten()
	case game.EventCollision:
		r.deps.Metrics.IncCollision(ev.Collision.String())
	case game.EventGameOver, game.EventWin:
		r.deps.Metrics.IncGameFinished(ev.Kind.String())
	}
}

func (r *Room) broadcast(msgID uint16, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("Room %s failed to encode message %d: %v", r.ID, msgID, err)
		return
	}
	if err := r.deps.Broadcaster.BroadcastToRoom(r.ID, msgID, data); err != nil {
		logger.Log.Warnf("Room %s broadcast %d failed: %v", r.ID, msgID, err)
	}
}

// --- 会话 ---

func (r *Room) AddPlayer(s *session.Session) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()
	r.players[s.ID] = s
	s.SetRoomID(r.ID)
}

func (r *Room) RemovePlayer(sessionID string) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	if player, exists := r.players[sessionID]; exists {
		player.SetRoomID("")
		delete(r.players, sessionID)
	}
}

// GetSessions returns a slice of all sessions in the room (thread-safe).
func (r *Room) GetSessions() []*session.Session {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.players))
	for _, s := range r.players {
		sessions = append(sessions, s)
	}
	return sessions
}

// --- 房间管理器 ---

// Manager 管理所有房间
type Manager struct {
	rooms map[string]*Room
	deps  Deps
	mutex sync.RWMutex
}

func NewRoomManager(deps Deps) *Manager {
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	return &Manager{
		rooms: make(map[string]*Room),
		deps:  deps,
	}
}

// SetBroadcaster 广播器依赖管理器本身, 创建之后再注入
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.mutex.Lock()
	m.deps.Broadcaster = b
	m.mutex.Unlock()
}

// CreateRoom 创建一个新房间并添加到管理器
func (m *Manager) CreateRoom(cfg Config, players ...*session.Session) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, err := NewRoom("", cfg, m.deps, players...)
	if err != nil {
		return nil, err
	}
	m.rooms[room.ID] = room
	m.deps.Metrics.SetActiveRooms(len(m.rooms))
	logger.Log.Infof("Room %s created (ai=%v)", room.ID, cfg.AIMode)
	return room, nil
}

// RemoveRoom 从管理器中移除并关闭一个房间
func (m *Manager) RemoveRoom(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, exists := m.rooms[id]
	if !exists {
		return ErrRoomNotFound
	}
	room.Close()
	delete(m.rooms, id)
	m.deps.Metrics.SetActiveRooms(len(m.rooms))
	return nil
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// CloseAll 关闭全部房间并等待后台任务结束
func (m *Manager) CloseAll() {
	m.mutex.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for id, room := range m.rooms {
		room.Close()
		rooms = append(rooms, room)
		delete(m.rooms, id)
	}
	m.deps.Metrics.SetActiveRooms(0)
	m.mutex.Unlock()

	for _, room := range rooms {
		room.Wait()
	}
}
