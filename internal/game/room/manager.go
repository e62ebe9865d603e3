package room

import (
	"log"
	"time"

	"github.com/palemoky/dehla-pakad/internal/apperrors"
	"github.com/palemoky/dehla-pakad/internal/game/engine"
	"github.com/palemoky/dehla-pakad/internal/types"
)

// CreateRoom 创建房间，创建者坐 0 号位（房主）
func (m *Manager) CreateRoom(client types.ClientInterface) (*Room, error) {
	m.mu.Lock()

	code := m.generateRoomCode()

	room := &Room{
		Code:      code,
		Players:   make([]*Player, 0, MaxPlayers),
		CreatedAt: time.Now(),
	}
	room.Players = append(room.Players, &Player{
		Identity:  client.GetIdentity(),
		Client:    client,
		Name:      client.GetName(),
		Avatar:    client.GetAvatar(),
		Seat:      0,
		Connected: true,
	})

	m.rooms[code] = room
	m.mu.Unlock()

	m.connMu.Lock()
	m.connRooms[client.GetID()] = code
	m.connMu.Unlock()

	client.SetRoom(code)

	m.persistRoom(room)
	m.appendHistory(client.GetIdentity(), code)

	log.Printf("🏠 房间 %s 已创建，房主 %s", code, client.GetName())

	return room, nil
}

// JoinRoom 加入房间。开局后只有被锁定的身份可以回到原座位，
// 其余一律拒绝；开局前同一身份重复加入视为重新绑定连接
func (m *Manager) JoinRoom(client types.ClientInterface, code string) (*Room, int, error) {
	m.mu.RLock()
	room, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return nil, 0, apperrors.ErrRoomNotFound
	}

	identity := client.GetIdentity()

	room.mu.Lock()

	gameActive := room.Engine != nil && room.Engine.Phase() != engine.PhaseWaiting

	// 身份已占座：重新绑定连接（开局前重进，或对局中重连）
	if p := room.playerByIdentityLocked(identity); p != nil {
		m.bindLocked(room, p, client)
		if !gameActive {
			// 开局前昵称和头像还允许修改
			p.Name = client.GetName()
			p.Avatar = client.GetAvatar()
		}
		seat := p.Seat
		room.mu.Unlock()

		m.persistRoom(room)
		log.Printf("📶 玩家 %s 重新绑定到房间 %s 座位 %d", p.Name, code, seat)
		return room, seat, nil
	}

	// 对局已开始：锁定集合之外的身份一律拒绝
	if gameActive {
		room.mu.Unlock()
		return nil, 0, apperrors.ErrGameInProgress
	}

	if len(room.Players) >= MaxPlayers {
		room.mu.Unlock()
		return nil, 0, apperrors.ErrRoomFull
	}

	seat := len(room.Players)
	p := &Player{
		Identity:  identity,
		Name:      client.GetName(),
		Avatar:    client.GetAvatar(),
		Seat:      seat,
		Connected: true,
	}
	room.Players = append(room.Players, p)
	m.bindLocked(room, p, client)
	room.mu.Unlock()

	m.persistRoom(room)
	m.appendHistory(identity, code)

	log.Printf("👤 玩家 %s 加入房间 %s (座位 %d, %s 队)", p.Name, code, seat, p.Team())

	return room, seat, nil
}

// bindLocked 把连接绑定到座位。调用方必须持有 room.mu
func (m *Manager) bindLocked(room *Room, p *Player, client types.ClientInterface) {
	// 旧连接如果还在映射里，先解除
	if p.Client != nil {
		m.connMu.Lock()
		delete(m.connRooms, p.Client.GetID())
		m.connMu.Unlock()
	}

	p.Client = client
	p.Connected = true

	m.connMu.Lock()
	m.connRooms[client.GetID()] = room.Code
	m.connMu.Unlock()

	client.SetRoom(room.Code)

	if room.Engine != nil {
		room.Engine.SetConnected(p.Seat, true)
	}
}

// StartGame 开始对局：必须恰好 4 人，创建引擎并发第一轮牌，
// 同时冻结身份集合 —— 此后不再接受任何新身份
func (m *Manager) StartGame(code string) (*Room, error) {
	m.mu.RLock()
	room, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()

	if len(room.Players) != MaxPlayers {
		room.mu.Unlock()
		return nil, apperrors.ErrNotEnoughPlayers
	}
	if room.Engine != nil && room.Engine.Phase() != engine.PhaseWaiting {
		room.mu.Unlock()
		return nil, apperrors.ErrGameInProgress
	}

	eng := engine.New(m.matchTarget)
	if err := eng.StartRound(); err != nil {
		room.mu.Unlock()
		return nil, err
	}
	room.Engine = eng

	room.Locked = make(map[string]bool, MaxPlayers)
	for _, p := range room.Players {
		room.Locked[p.Identity] = true
	}
	room.mu.Unlock()

	m.persistRoom(room)

	log.Printf("🎮 房间 %s 开局，身份集合已锁定", code)

	return room, nil
}

// StartNewRound 在轮结束后开下一轮
func (m *Manager) StartNewRound(code string) (*Room, error) {
	m.mu.RLock()
	room, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	if room.Engine == nil {
		room.mu.Unlock()
		return nil, apperrors.ErrNotRoundEnd
	}
	err := room.Engine.StartRound()
	room.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.persistRoom(room)

	log.Printf("🔄 房间 %s 开始新一轮", code)

	return room, nil
}
