package room

import (
	"sync"
	"time"

	"github.com/palemoky/dehla-pakad/internal/game/engine"
	"github.com/palemoky/dehla-pakad/internal/protocol"
	"github.com/palemoky/dehla-pakad/internal/server/storage"
	"github.com/palemoky/dehla-pakad/internal/types"
)

const (
	roomCodeLength = 6
	// 房间号字符集，排除易混淆的 I、O、0、1
	roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// MaxPlayers 每个房间固定 4 个座位
	MaxPlayers = 4
)

// Player 房间中的玩家。座位一经分配不再变化；
// 连接在断线重连时更换，稳定身份不变
type Player struct {
	Identity  string                // 稳定身份（认证协作方提供）
	Client    types.ClientInterface // 当前连接，离线时为 nil
	Name      string
	Avatar    int
	Seat      int
	Connected bool
}

// Team 返回座位派生的队伍
func (p *Player) Team() engine.Team {
	return engine.TeamOfSeat(p.Seat)
}

// Info 转为协议层玩家信息
func (p *Player) Info() protocol.PlayerInfo {
	return protocol.PlayerInfo{
		Identity:  p.Identity,
		Name:      p.Name,
		Seat:      p.Seat,
		Team:      string(p.Team()),
		Connected: p.Connected,
		Avatar:    p.Avatar,
	}
}

// Room 游戏房间。开局后 Locked 冻结 4 个身份，
// 此后只允许这 4 个身份重连，不再接受新玩家
type Room struct {
	Code      string
	Players   []*Player // 按加入顺序即座位顺序
	Locked    map[string]bool
	Engine    *engine.Engine // 开局前为 nil
	CreatedAt time.Time

	// 延迟的墩后状态广播，房间销毁时必须取消
	revealTimer *time.Timer

	mu sync.RWMutex

	// 持久化排序：快照按产生顺序编号，落盘时旧编号不得覆盖新编号
	persistMu   sync.Mutex
	persistSeq  uint64
	writeMu     sync.Mutex
	persistDone uint64
}

// Manager 房间管理器，持有所有活动房间。
// 同一房间的全部状态变更经 Room.mu 串行化，跨房间操作互不影响
type Manager struct {
	store       *storage.RedisStore // nil 时退化为纯内存模式
	roomTimeout time.Duration
	matchTarget int

	rooms map[string]*Room
	mu    sync.RWMutex

	// 连接 ID → 房间号。独立锁，避免与 Room.mu 形成固定的加锁顺序
	connRooms map[string]string
	connMu    sync.RWMutex
}

// NewManager 创建房间管理器并启动清理协程
func NewManager(store *storage.RedisStore, roomTimeout time.Duration, matchTarget int) *Manager {
	m := &Manager{
		store:       store,
		roomTimeout: roomTimeout,
		matchTarget: matchTarget,
		rooms:       make(map[string]*Room),
		connRooms:   make(map[string]string),
	}

	go m.cleanupLoop()

	return m
}

// GetRoom 获取房间
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// GetRoomByConn 通过连接 ID 获取房间
func (m *Manager) GetRoomByConn(connID string) *Room {
	m.connMu.RLock()
	code, ok := m.connRooms[connID]
	m.connMu.RUnlock()
	if !ok {
		return nil
	}
	return m.GetRoom(code)
}

// RoomCount 当前活动房间数
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// --- Room 只读辅助 ---

// PlayerByIdentity 按稳定身份查找玩家
func (r *Room) PlayerByIdentity(identity string) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerByIdentityLocked(identity)
}

func (r *Room) playerByIdentityLocked(identity string) *Player {
	for _, p := range r.Players {
		if p.Identity == identity {
			return p
		}
	}
	return nil
}

// GameEngine 返回房间的引擎，开局前为 nil
func (r *Room) GameEngine() *engine.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Engine
}

// PlayerBySeat 按座位查找玩家
func (r *Room) PlayerBySeat(seat int) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if seat < 0 || seat >= len(r.Players) {
		return nil
	}
	return r.Players[seat]
}

// PlayersInfo 所有玩家的协议层信息（按座位序）
func (r *Room) PlayersInfo() []protocol.PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]protocol.PlayerInfo, len(r.Players))
	for i, p := range r.Players {
		infos[i] = p.Info()
	}
	return infos
}

// Broadcast 发送消息给房间内所有在线玩家
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.Players {
		if p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// BroadcastExcept 发送消息给除指定身份外的在线玩家
func (r *Room) BroadcastExcept(identity string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.Players {
		if p.Identity != identity && p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// ForEachSeated 对每个在线玩家执行 fn（按座位序），
// 用于下发按座位过滤的视图
func (r *Room) ForEachSeated(fn func(p *Player)) {
	r.mu.RLock()
	players := make([]*Player, len(r.Players))
	copy(players, r.Players)
	r.mu.RUnlock()

	for _, p := range players {
		if p.Client != nil {
			fn(p)
		}
	}
}

// ScheduleReveal 安排一次延迟广播（墩收走前的观看时间）。
// 同一时刻只保留一个待触发的定时器，房间销毁时取消
func (r *Room) ScheduleReveal(delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.revealTimer != nil {
		r.revealTimer.Stop()
	}
	r.revealTimer = time.AfterFunc(delay, fn)
}

// cancelTimers 取消待触发的定时器，销毁路径调用
func (r *Room) cancelTimers() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.revealTimer != nil {
		r.revealTimer.Stop()
		r.revealTimer = nil
	}
}
