// Package roles builds the hidden role pool for a game.
package roles

import (
	"errors"
	"math/rand/v2"
)

// Role is a hidden gameplay role assigned to one roster entry.
type Role string

const (
	Mafia      Role = "mafia"
	Doctor     Role = "doctor"
	Commissar  Role = "commissar"
	Maniac     Role = "maniac"
	Prostitute Role = "prostitute"
	Lucky      Role = "lucky"
	Sergeant   Role = "sergeant"
	Homeless   Role = "homeless"
	Lawyer     Role = "lawyer"
	Suicide    Role = "suicide"
	Kamikaze   Role = "kamikaze"
	Citizen    Role = "citizen"
)

// MinPlayers is the smallest roster a game can start with.
const MinPlayers = 4

// ErrInvalidRosterSize is returned when fewer than MinPlayers roles are requested.
var ErrInvalidRosterSize = errors.New("minimum 4 players required to build roles")

type unlock struct {
	minPlayers int
	role       Role
}

// Special roles in the order they are unlocked as the roster grows.
var unlocks = []unlock{
	{5, Commissar},
	{6, Maniac},
	{7, Prostitute},
	{8, Lucky},
	{9, Sergeant},
	{10, Homeless},
	{11, Lawyer},
	{12, Suicide},
	{13, Kamikaze},
}

// Leftover slots take these roles positionally before falling back to citizens.
// The filler is not gated by the unlock thresholds.
var filler = []Role{Doctor, Commissar, Lucky, Sergeant}

// Composition returns the unshuffled role multiset for playerCount players.
func Composition(playerCount int) ([]Role, error) {
	if playerCount < MinPlayers {
		return nil, ErrInvalidRosterSize
	}

	pool := make([]Role, 0, playerCount)

	mafiaCount := max(1, playerCount/4)
	for range mafiaCount {
		pool = append(pool, Mafia)
	}
	pool = append(pool, Doctor)

	for _, u := range unlocks {
		if playerCount >= u.minPlayers {
			pool = append(pool, u.role)
		}
	}

	remaining := playerCount - len(pool)
	for i := range remaining {
		if i < len(filler) {
			pool = append(pool, filler[i])
		} else {
			pool = append(pool, Citizen)
		}
	}

	return pool, nil
}

// Build returns playerCount roles shuffled with rng.
// The same playerCount always yields the same multiset; only the order varies.
func Build(playerCount int, rng *rand.Rand) ([]Role, error) {
	pool, err := Composition(playerCount)
	if err != nil {
		return nil, err
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool, nil
}

// Count tallies roles by name.
func Count(pool []Role) map[Role]int {
	counts := make(map[Role]int, len(pool))
	for _, r := range pool {
		counts[r]++
	}
	return counts
}
