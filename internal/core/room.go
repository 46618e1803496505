package core

import "sort"

// Rooms tracks which connections belong to which named room.
// Rooms are created on first join and dropped when their last member leaves.
// It is not safe for concurrent use; the hub loop owns it.
type Rooms struct {
	members map[string]map[string]struct{}
	byConn  map[string]map[string]struct{}
}

// NewRooms constructs an empty room set.
func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[string]map[string]struct{}),
		byConn:  make(map[string]map[string]struct{}),
	}
}

// Join inserts connID into roomID. Returns true if newly added.
func (r *Rooms) Join(roomID, connID string) bool {
	set, ok := r.members[roomID]
	if !ok {
		set = make(map[string]struct{})
		r.members[roomID] = set
	}
	if _, exists := set[connID]; exists {
		return false
	}
	set[connID] = struct{}{}

	joined, ok := r.byConn[connID]
	if !ok {
		joined = make(map[string]struct{})
		r.byConn[connID] = joined
	}
	joined[roomID] = struct{}{}
	return true
}

// Leave removes connID from roomID. Returns true if it was a member.
func (r *Rooms) Leave(roomID, connID string) bool {
	set, ok := r.members[roomID]
	if !ok {
		return false
	}
	if _, exists := set[connID]; !exists {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.members, roomID)
	}
	if joined, ok := r.byConn[connID]; ok {
		delete(joined, roomID)
		if len(joined) == 0 {
			delete(r.byConn, connID)
		}
	}
	return true
}

// LeaveAll removes connID from every room and returns the rooms it left.
func (r *Rooms) LeaveAll(connID string) []string {
	joined := r.byConn[connID]
	left := make([]string, 0, len(joined))
	for roomID := range joined {
		left = append(left, roomID)
	}
	for _, roomID := range left {
		r.Leave(roomID, connID)
	}
	sort.Strings(left)
	return left
}

// Members returns the connection ids in roomID, sorted. Unknown rooms are empty.
func (r *Rooms) Members(roomID string) []string {
	set := r.members[roomID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of non-empty rooms.
func (r *Rooms) Len() int {
	return len(r.members)
}
