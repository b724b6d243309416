package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreditDebitOverflowAndUnderflow(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Credit("alice", 100))
	require.Equal(t, uint64(100), s.Balance("alice"))

	require.Error(t, s.Debit("alice", 101))
	require.Equal(t, uint64(100), s.Balance("alice"))

	s.Accounts["bob"] = ^uint64(0)
	require.Error(t, s.Credit("bob", 1))
	require.Equal(t, ^uint64(0), s.Balance("bob"))
}

func TestTransferAtomicOnFailure(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Credit("alice", 10))

	err := s.Transfer("alice", "bob", 11)
	require.Error(t, err)
	require.Equal(t, uint64(10), s.Balance("alice"))
	require.Equal(t, uint64(0), s.Balance("bob"))

	require.NoError(t, s.Transfer("alice", "bob", 10))
	require.Equal(t, uint64(0), s.Balance("alice"))
	require.Equal(t, uint64(10), s.Balance("bob"))
}

func TestIndexAccountMonotonic(t *testing.T) {
	s := NewState()
	s.IndexAccount("alice", 1)
	s.IndexAccount("alice", 1)
	s.IndexAccount("alice", 2)

	require.Equal(t, []int64{1, 1, 2}, s.IndexBlocks("alice"))
	require.Equal(t, uint64(3), s.AccountNextIndex["alice"])
	require.Equal(t, uint64(0), s.AccountStartIndex["alice"])
}

// TestStashRankingSequence reproduces the literal six-step scenario: after
// each deposit, walking the list from the head must yield the documented
// ranked order, including the tie-break that preserves insertion order.
func TestStashRankingSequence(t *testing.T) {
	s := NewState()
	const asset = "asset1"

	apply := func(account string, delta uint64) {
		cur := s.StashValue(asset, account)
		s.SetStashValue(asset, account, cur+delta)
	}

	apply("A", 50)
	require.Equal(t, []StashEntry{{"A", 50}}, s.GetStashes(asset, 0, 100))

	apply("B", 40)
	require.Equal(t, []StashEntry{{"A", 50}, {"B", 40}}, s.GetStashes(asset, 0, 100))

	apply("C", 60)
	require.Equal(t, []StashEntry{{"C", 60}, {"A", 50}, {"B", 40}}, s.GetStashes(asset, 0, 100))

	apply("D", 45)
	require.Equal(t, []StashEntry{{"C", 60}, {"A", 50}, {"D", 45}, {"B", 40}}, s.GetStashes(asset, 0, 100))

	apply("A", 10)
	require.Equal(t, []StashEntry{{"C", 60}, {"A", 60}, {"D", 45}, {"B", 40}}, s.GetStashes(asset, 0, 100))

	apply("A", 1)
	require.Equal(t, []StashEntry{{"A", 61}, {"C", 60}, {"D", 45}, {"B", 40}}, s.GetStashes(asset, 0, 100))
}

func TestStashWithdrawRemovesFromList(t *testing.T) {
	s := NewState()
	const asset = "asset1"
	s.SetStashValue(asset, "A", 50)
	s.SetStashValue(asset, "B", 40)

	s.SetStashValue(asset, "A", 0)
	require.Equal(t, []StashEntry{{"B", 40}}, s.GetStashes(asset, 0, 100))
	require.Equal(t, uint64(0), s.StashValue(asset, "A"))
}

func TestGetStashesPagination(t *testing.T) {
	s := NewState()
	const asset = "asset1"
	s.SetStashValue(asset, "A", 50)
	s.SetStashValue(asset, "B", 40)
	s.SetStashValue(asset, "C", 60)

	require.Equal(t, []StashEntry{{"C", 60}}, s.GetStashes(asset, 0, 1))
	require.Equal(t, []StashEntry{{"A", 50}}, s.GetStashes(asset, 1, 1))
	require.Equal(t, []StashEntry{{"B", 40}}, s.GetStashes(asset, 2, 1))
	require.Empty(t, s.GetStashes(asset, 3, 1))
}

func TestStateCloneIsIndependent(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Credit("alice", 10))

	clone, err := s.Clone()
	require.NoError(t, err)
	require.NoError(t, clone.Credit("alice", 5))

	require.Equal(t, uint64(10), s.Balance("alice"))
	require.Equal(t, uint64(15), clone.Balance("alice"))
}

func TestAppHashDeterministicAcrossEquivalentInsertOrder(t *testing.T) {
	s1 := NewState()
	s1.Credit("alice", 10)
	s1.Credit("bob", 20)

	s2 := NewState()
	s2.Credit("bob", 20)
	s2.Credit("alice", 10)

	require.Equal(t, s1.AppHash(), s2.AppHash())
}
