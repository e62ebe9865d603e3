package room

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/palemoky/dehla-pakad/internal/game/engine"
	"github.com/palemoky/dehla-pakad/internal/protocol"
	"github.com/palemoky/dehla-pakad/internal/server/storage"
)

// persistTimeout 单次持久化写入的上限
const persistTimeout = 5 * time.Second

// ToRoomData 将 Room 转换为可序列化的 RoomData
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := &storage.RoomData{
		Code:      r.Code,
		Status:    storage.StatusWaiting,
		Players:   make([]storage.PlayerData, 0, len(r.Players)),
		CreatedAt: r.CreatedAt.Unix(),
		UpdatedAt: time.Now().Unix(),
	}

	for _, p := range r.Players {
		data.Players = append(data.Players, storage.PlayerData{
			Identity:  p.Identity,
			Name:      p.Name,
			Seat:      p.Seat,
			Avatar:    p.Avatar,
			Connected: p.Connected,
		})
	}

	for identity := range r.Locked {
		data.LockedIdentities = append(data.LockedIdentities, identity)
	}

	if r.Engine != nil {
		switch r.Engine.Phase() {
		case engine.PhaseMatchEnd:
			data.Status = storage.StatusFinished
		case engine.PhaseWaiting:
			data.Status = storage.StatusWaiting
		default:
			data.Status = storage.StatusPlaying
		}

		if snapshot, err := json.Marshal(r.Engine.Snapshot()); err == nil {
			data.GameState = snapshot
		} else {
			log.Printf("序列化引擎快照失败 (房间 %s): %v", r.Code, err)
		}
	}

	return data
}

// snapshotForPersist 生成快照并分配单调递增的序号。
// 序号与快照在同一临界区内产生，先产生的快照序号一定更小
func (r *Room) snapshotForPersist() (*storage.RoomData, uint64) {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	r.persistSeq++
	return r.ToRoomData(), r.persistSeq
}

// writeSnapshot 同一房间的落盘按序号串行，落后于已写入序号的快照直接丢弃。
// 没有这层排序，乱序调度的写协程会让旧的大厅快照覆盖开局后的对局快照
func (m *Manager) writeSnapshot(r *Room, data *storage.RoomData, seq uint64) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if seq <= r.persistDone {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.store.SaveRoom(ctx, data.Code, data); err != nil {
		log.Printf("持久化房间 %s 失败（仅内存模式继续）: %v", data.Code, err)
		return
	}
	r.persistDone = seq
}

// persistRoom 把房间快照写入持久化协作方。
// 尽力而为：异步执行，失败只记日志，绝不阻塞或影响对局
func (m *Manager) persistRoom(r *Room) {
	if m.store == nil {
		return
	}

	data, seq := r.snapshotForPersist()
	go m.writeSnapshot(r, data, seq)
}

// persistRoomFinished 归档房间为 finished 状态
func (m *Manager) persistRoomFinished(r *Room) {
	if m.store == nil {
		return
	}

	data, seq := r.snapshotForPersist()
	data.Status = storage.StatusFinished
	go m.writeSnapshot(r, data, seq)
}

// deleteRecord 删除持久化记录
func (m *Manager) deleteRecord(code string) {
	if m.store == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.store.DeleteRoom(ctx, code); err != nil {
			log.Printf("删除房间记录 %s 失败: %v", code, err)
		}
	}()
}

// appendHistory 记录身份参与过的房间
func (m *Manager) appendHistory(identity, code string) {
	if m.store == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.store.AppendRoomHistory(ctx, identity, code); err != nil {
			log.Printf("记录房间历史失败 (%s → %s): %v", identity, code, err)
		}
	}()
}

// PersistRoom 供上层在引擎状态变更后主动落盘
func (m *Manager) PersistRoom(r *Room) {
	m.persistRoom(r)
}

// ArchiveRoom 比赛结束后把房间记录归档为 finished
func (m *Manager) ArchiveRoom(r *Room) {
	m.persistRoomFinished(r)
}

// RoomHistory 读取某身份的历史房间列表（持久化支撑，只读）
func (m *Manager) RoomHistory(ctx context.Context, identity string) ([]protocol.RoomHistoryEntry, error) {
	if m.store == nil {
		return nil, nil
	}

	codes, err := m.store.GetRoomHistory(ctx, identity)
	if err != nil {
		return nil, err
	}

	entries := make([]protocol.RoomHistoryEntry, 0, len(codes))
	for _, code := range codes {
		data, err := m.store.LoadRoom(ctx, code)
		if err != nil || data == nil {
			continue // 已过期的房间直接跳过
		}

		entry := protocol.RoomHistoryEntry{
			RoomCode:  data.Code,
			Status:    data.Status,
			CreatedAt: data.CreatedAt,
			UpdatedAt: data.UpdatedAt,
		}
		for _, p := range data.Players {
			entry.Players = append(entry.Players, protocol.PlayerInfo{
				Identity:  p.Identity,
				Name:      p.Name,
				Seat:      p.Seat,
				Team:      string(engine.TeamOfSeat(p.Seat)),
				Avatar:    p.Avatar,
				Connected: p.Connected,
			})
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Rehydrate 进程启动时从持久化协作方恢复房间。
// 尽力而为：引擎快照解码失败的对局房间直接放弃，
// 等待中的大厅原样恢复（玩家全部标记离线，等待重连）
func (m *Manager) Rehydrate(ctx context.Context) {
	if m.store == nil {
		return
	}

	codes, err := m.store.GetAllRoomCodes(ctx)
	if err != nil {
		log.Printf("⚠️ 恢复房间失败（跳过恢复，空房间表启动）: %v", err)
		return
	}

	restored := 0
	for _, code := range codes {
		data, err := m.store.LoadRoom(ctx, code)
		if err != nil || data == nil {
			continue
		}
		if data.Status == storage.StatusFinished {
			continue
		}

		room := &Room{
			Code:      data.Code,
			Players:   make([]*Player, 0, len(data.Players)),
			CreatedAt: time.Unix(data.CreatedAt, 0),
		}
		for _, p := range data.Players {
			room.Players = append(room.Players, &Player{
				Identity: p.Identity,
				Name:     p.Name,
				Seat:     p.Seat,
				Avatar:   p.Avatar,
				// 进程重启后所有旧连接都已失效
				Connected: false,
			})
		}
		if len(data.LockedIdentities) > 0 {
			room.Locked = make(map[string]bool, len(data.LockedIdentities))
			for _, identity := range data.LockedIdentities {
				room.Locked[identity] = true
			}
		}

		if len(data.GameState) > 0 {
			var snapshot engine.Snapshot
			if err := json.Unmarshal(data.GameState, &snapshot); err != nil {
				log.Printf("⚠️ 房间 %s 引擎快照损坏，放弃恢复: %v", code, err)
				continue
			}
			eng, err := engine.Restore(&snapshot)
			if err != nil {
				log.Printf("⚠️ 房间 %s 引擎恢复失败，放弃恢复: %v", code, err)
				continue
			}
			for seat := range MaxPlayers {
				eng.SetConnected(seat, false)
			}
			room.Engine = eng
		}

		m.mu.Lock()
		m.rooms[room.Code] = room
		m.mu.Unlock()
		restored++
	}

	if restored > 0 {
		log.Printf("♻️ 已从持久化存储恢复 %d 个房间", restored)
	}
}
