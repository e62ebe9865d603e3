package room

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/palemoky/dehla-pakad/internal/apperrors"
	"github.com/palemoky/dehla-pakad/internal/protocol"
	"github.com/palemoky/dehla-pakad/internal/types"
)

// HandleDisconnect 连接断开：只标记座位离线，座位不释放。
// 大厅阶段（未开局）所有人都离线时直接解散房间。
// 返回受影响的房间和座位，供上层广播掉线通知
func (m *Manager) HandleDisconnect(client types.ClientInterface) (*Room, int, bool) {
	m.connMu.Lock()
	code, ok := m.connRooms[client.GetID()]
	if ok {
		delete(m.connRooms, client.GetID())
	}
	m.connMu.Unlock()
	if !ok {
		return nil, 0, false
	}

	room := m.GetRoom(code)
	if room == nil {
		return nil, 0, false
	}

	room.mu.Lock()

	var seat = -1
	allOffline := true
	for _, p := range room.Players {
		// 只处理仍绑定在这条连接上的座位，
		// 防止重连之后才到达的旧断开事件误伤新连接
		if p.Client != nil && p.Client.GetID() == client.GetID() {
			p.Client = nil
			p.Connected = false
			seat = p.Seat
			if room.Engine != nil {
				room.Engine.SetConnected(p.Seat, false)
			}
		}
		if p.Connected {
			allOffline = false
		}
	}

	lobbyEmpty := room.Engine == nil && allOffline
	room.mu.Unlock()

	if seat == -1 {
		return nil, 0, false
	}

	if lobbyEmpty {
		log.Printf("🧹 房间 %s 大厅内所有玩家已断开，解散房间", code)
		m.teardownRoom(code, true)
		return room, seat, true
	}

	m.persistRoom(room)

	log.Printf("📴 玩家 %s 在房间 %s 中掉线 (座位 %d)", client.GetName(), code, seat)

	return room, seat, true
}

// Reconnect 断线重连：按稳定身份找回座位并绑定新连接。
// 对局进行中时调用方应紧接着下发该座位的当前视图
func (m *Manager) Reconnect(client types.ClientInterface, code string) (*Room, int, error) {
	m.mu.RLock()
	room, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return nil, 0, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	p := room.playerByIdentityLocked(client.GetIdentity())
	if p == nil {
		room.mu.Unlock()
		return nil, 0, apperrors.ErrUnknownIdentity
	}

	m.bindLocked(room, p, client)
	seat := p.Seat
	room.mu.Unlock()

	m.persistRoom(room)

	log.Printf("📶 玩家 %s 重连到房间 %s (座位 %d)", client.GetName(), code, seat)

	return room, seat, nil
}

// generateRoomCode 生成不与现有房间冲突的房间号。
// 调用方必须持有 m.mu
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := m.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// teardownRoom 销毁房间：取消定时器、解除连接映射、删除或归档持久化记录
func (m *Manager) teardownRoom(code string, deleteRecord bool) {
	m.mu.Lock()
	room, exists := m.rooms[code]
	if exists {
		delete(m.rooms, code)
	}
	m.mu.Unlock()
	if !exists {
		return
	}

	room.cancelTimers()

	room.mu.RLock()
	for _, p := range room.Players {
		if p.Client != nil {
			m.connMu.Lock()
			delete(m.connRooms, p.Client.GetID())
			m.connMu.Unlock()
			p.Client.SetRoom("")
		}
	}
	room.mu.RUnlock()

	if deleteRecord {
		m.deleteRecord(code)
	} else {
		// 已开过局的房间归档成 finished，供历史查询
		m.persistRoomFinished(room)
	}
}

// cleanupLoop 定期清理超龄房间
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

// cleanup 清理超过存活上限的房间。不区分状态：
// 被遗弃的大厅和打到一半没人回来的对局都要回收
func (m *Manager) cleanup() {
	type staleRoom struct {
		room  *Room
		lobby bool
	}

	m.mu.RLock()
	var stale []staleRoom
	now := time.Now()
	for _, room := range m.rooms {
		if now.Sub(room.CreatedAt) > m.roomTimeout {
			room.mu.RLock()
			lobby := room.Engine == nil
			room.mu.RUnlock()
			stale = append(stale, staleRoom{room: room, lobby: lobby})
		}
	}
	m.mu.RUnlock()

	for _, s := range stale {
		s.room.Broadcast(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭"))
		m.teardownRoom(s.room.Code, s.lobby)
		log.Printf("🏠 房间 %s 超时已清理", s.room.Code)
	}
}
