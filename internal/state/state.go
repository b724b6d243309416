// Package state holds the atomic-swap module's entire persisted world:
// account balances, the order book, the lock registry, per-asset stash
// books, and the account event index. It plays the role the distilled
// design calls "the host runtime" — this module has no other host to lean
// on, so it supplies its own ledger, clock plumbing, and snapshotting.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/crypto/blake2b"

	errorsmod "cosmossdk.io/errors"
)

// ZeroAccount is the sentinel "previous" key denoting the head of a stash
// asset's ranking list.
const ZeroAccount = ""

// StashBook is one asset's ranked-by-value linked list: Values holds the
// live per-account balances, LinkedList maps a predecessor account (or
// ZeroAccount for the head) to its successor.
type StashBook struct {
	Values     map[string]uint64 `json:"values"`
	LinkedList map[string]string `json:"linkedList"`
}

func newStashBook() *StashBook {
	return &StashBook{
		Values:     map[string]uint64{},
		LinkedList: map[string]string{},
	}
}

// LockRecord is the latest-revision unified lock: a single LockId-keyed
// entry regardless of whether it originated from lock_buy (escrow-sourced)
// or lock_sell (stash-sourced) — both behave identically from here on.
type LockRecord struct {
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	HashedSecret string `json:"hashedSecret"`
	Timeout      int64  `json:"timeout"`
	Value        uint64 `json:"value"`
}

// State is the entire module world.
type State struct {
	Height int64 `json:"height"`

	Accounts    map[string]uint64 `json:"accounts"`
	AccountKeys map[string][]byte `json:"accountKeys,omitempty"`
	NonceMax    map[string]uint64 `json:"nonceMax,omitempty"`

	OrderValues map[string]uint64 `json:"orderValues"`

	LockValues map[string]*LockRecord `json:"lockValues"`

	Stash map[string]*StashBook `json:"stash"`

	AccountNextIndex   map[string]uint64           `json:"accountNextIndex,omitempty"`
	AccountStartIndex  map[string]uint64           `json:"accountStartIndex,omitempty"`
	AccountIndexHeight map[string]map[uint64]int64 `json:"accountIndexHeight,omitempty"`
}

func NewState() *State {
	return &State{
		Height:             0,
		Accounts:           map[string]uint64{},
		AccountKeys:        map[string][]byte{},
		NonceMax:           map[string]uint64{},
		OrderValues:        map[string]uint64{},
		LockValues:         map[string]*LockRecord{},
		Stash:              map[string]*StashBook{},
		AccountNextIndex:   map[string]uint64{},
		AccountStartIndex:  map[string]uint64{},
		AccountIndexHeight: map[string]map[uint64]int64{},
	}
}

func Load(home string) (*State, error) {
	path := filepath.Join(home, "state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	st.fillDefaults()
	return &st, nil
}

func (s *State) fillDefaults() {
	if s.Accounts == nil {
		s.Accounts = map[string]uint64{}
	}
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.OrderValues == nil {
		s.OrderValues = map[string]uint64{}
	}
	if s.LockValues == nil {
		s.LockValues = map[string]*LockRecord{}
	}
	if s.Stash == nil {
		s.Stash = map[string]*StashBook{}
	}
	if s.AccountNextIndex == nil {
		s.AccountNextIndex = map[string]uint64{}
	}
	if s.AccountStartIndex == nil {
		s.AccountStartIndex = map[string]uint64{}
	}
	if s.AccountIndexHeight == nil {
		s.AccountIndexHeight = map[string]map[uint64]int64{}
	}
}

func (s *State) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	path := filepath.Join(home, "state.json")
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.fillDefaults()
	return &out, nil
}

// AppHash folds every map in the module into a normalized, key-sorted
// structure before hashing, so that two nodes which reach the same state
// via differently-ordered map iteration still compute the same digest.
func (s *State) AppHash() []byte {
	type accountKV struct {
		Addr    string `json:"addr"`
		Balance uint64 `json:"balance"`
	}
	type accountKeyKV struct {
		Addr   string `json:"addr"`
		PubKey []byte `json:"pubKey"`
	}
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}
	type orderKV struct {
		OrderID string `json:"orderId"`
		Value   uint64 `json:"value"`
	}
	type lockKV struct {
		LockID string      `json:"lockId"`
		Lock   *LockRecord `json:"lock"`
	}
	type stashValueKV struct {
		Account string `json:"account"`
		Value   uint64 `json:"value"`
	}
	type stashLinkKV struct {
		Prev string `json:"prev"`
		Next string `json:"next"`
	}
	type stashKV struct {
		Asset  string         `json:"asset"`
		Values []stashValueKV `json:"values"`
		Links  []stashLinkKV  `json:"links"`
	}
	type indexHeightKV struct {
		I      uint64 `json:"i"`
		Height int64  `json:"height"`
	}
	type indexKV struct {
		Account    string          `json:"account"`
		NextIndex  uint64          `json:"nextIndex"`
		StartIndex uint64          `json:"startIndex"`
		Heights    []indexHeightKV `json:"heights"`
	}

	accounts := make([]accountKV, 0, len(s.Accounts))
	for k, v := range s.Accounts {
		accounts = append(accounts, accountKV{Addr: k, Balance: v})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Addr < accounts[j].Addr })

	accountKeys := make([]accountKeyKV, 0, len(s.AccountKeys))
	for k, v := range s.AccountKeys {
		accountKeys = append(accountKeys, accountKeyKV{Addr: k, PubKey: v})
	}
	sort.Slice(accountKeys, func(i, j int) bool { return accountKeys[i].Addr < accountKeys[j].Addr })

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	orders := make([]orderKV, 0, len(s.OrderValues))
	for k, v := range s.OrderValues {
		orders = append(orders, orderKV{OrderID: k, Value: v})
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })

	locks := make([]lockKV, 0, len(s.LockValues))
	for k, v := range s.LockValues {
		locks = append(locks, lockKV{LockID: k, Lock: v})
	}
	sort.Slice(locks, func(i, j int) bool { return locks[i].LockID < locks[j].LockID })

	assetKeys := make([]string, 0, len(s.Stash))
	for k := range s.Stash {
		assetKeys = append(assetKeys, k)
	}
	sort.Strings(assetKeys)
	stashes := make([]stashKV, 0, len(assetKeys))
	for _, asset := range assetKeys {
		book := s.Stash[asset]
		values := make([]stashValueKV, 0, len(book.Values))
		for acc, v := range book.Values {
			values = append(values, stashValueKV{Account: acc, Value: v})
		}
		sort.Slice(values, func(i, j int) bool { return values[i].Account < values[j].Account })
		links := make([]stashLinkKV, 0, len(book.LinkedList))
		for prev, next := range book.LinkedList {
			links = append(links, stashLinkKV{Prev: prev, Next: next})
		}
		sort.Slice(links, func(i, j int) bool { return links[i].Prev < links[j].Prev })
		stashes = append(stashes, stashKV{Asset: asset, Values: values, Links: links})
	}

	indexAccounts := make(map[string]bool, len(s.AccountNextIndex)+len(s.AccountIndexHeight))
	for acc := range s.AccountNextIndex {
		indexAccounts[acc] = true
	}
	for acc := range s.AccountIndexHeight {
		indexAccounts[acc] = true
	}
	indexKeys := make([]string, 0, len(indexAccounts))
	for acc := range indexAccounts {
		indexKeys = append(indexKeys, acc)
	}
	sort.Strings(indexKeys)
	indexes := make([]indexKV, 0, len(indexKeys))
	for _, acc := range indexKeys {
		heightsMap := s.AccountIndexHeight[acc]
		heights := make([]indexHeightKV, 0, len(heightsMap))
		for i, h := range heightsMap {
			heights = append(heights, indexHeightKV{I: i, Height: h})
		}
		sort.Slice(heights, func(i, j int) bool { return heights[i].I < heights[j].I })
		indexes = append(indexes, indexKV{
			Account:    acc,
			NextIndex:  s.AccountNextIndex[acc],
			StartIndex: s.AccountStartIndex[acc],
			Heights:    heights,
		})
	}

	normalized := struct {
		Height      int64          `json:"height"`
		Accounts    []accountKV    `json:"accounts"`
		AccountKeys []accountKeyKV `json:"accountKeys,omitempty"`
		NonceMax    []nonceKV      `json:"nonceMax,omitempty"`
		Orders      []orderKV      `json:"orders"`
		Locks       []lockKV       `json:"locks"`
		Stash       []stashKV      `json:"stash"`
		Index       []indexKV      `json:"index"`
	}{
		Height:      s.Height,
		Accounts:    accounts,
		AccountKeys: accountKeys,
		NonceMax:    nonces,
		Orders:      orders,
		Locks:       locks,
		Stash:       stashes,
		Index:       indexes,
	}

	b, _ := json.Marshal(normalized)
	sum := blake2b.Sum256(b)
	return sum[:]
}

// ---- Ledger ----

func (s *State) Balance(addr string) uint64 {
	return s.Accounts[addr]
}

func (s *State) Credit(addr string, amount uint64) error {
	bal := s.Accounts[addr]
	if bal > ^uint64(0)-amount {
		return errorsmod.Wrapf(ErrOverflow, "balance overflow: have=%d add=%d", bal, amount)
	}
	s.Accounts[addr] = bal + amount
	return nil
}

func (s *State) Debit(addr string, amount uint64) error {
	bal := s.Accounts[addr]
	if bal < amount {
		return errorsmod.Wrapf(ErrInsufficientFunds, "insufficient funds: have=%d need=%d", bal, amount)
	}
	s.Accounts[addr] = bal - amount
	return nil
}

// Transfer moves amount from one account to another, checked both ways.
// Nothing is mutated if either leg would fail.
func (s *State) Transfer(from, to string, amount uint64) error {
	if s.Accounts[from] < amount {
		return errorsmod.Wrapf(ErrInsufficientFunds, "insufficient funds: have=%d need=%d", s.Accounts[from], amount)
	}
	bal := s.Accounts[to]
	if bal > ^uint64(0)-amount {
		return errorsmod.Wrapf(ErrOverflow, "balance overflow: have=%d add=%d", bal, amount)
	}
	s.Accounts[from] -= amount
	s.Accounts[to] = bal + amount
	return nil
}

// ---- Stash book access ----

func (s *State) stashBook(asset string) *StashBook {
	book, ok := s.Stash[asset]
	if !ok {
		book = newStashBook()
		s.Stash[asset] = book
	}
	return book
}

// StashValue returns the current stash balance of account for asset.
func (s *State) StashValue(asset, account string) uint64 {
	book, ok := s.Stash[asset]
	if !ok {
		return 0
	}
	return book.Values[account]
}

// stashPredecessorOf linear-scans the list to find the node whose next
// pointer is account. Returns "", false if account is not in the list.
func stashPredecessorOf(book *StashBook, account string) (string, bool) {
	prev := ZeroAccount
	for {
		next, ok := book.LinkedList[prev]
		if !ok {
			return "", false
		}
		if next == account {
			return prev, true
		}
		prev = next
	}
}

// SetStashValue re-ranks account's asset stash to newTotal, keeping the
// list ordered by descending value and dropping any entry whose value
// becomes zero. Complexity is O(N) in the list length: an O(N)
// predecessor splice-out followed by an O(N) predecessor search for the
// new position. This is an intentional choice, not silently upgraded to
// a balanced structure.
func (s *State) SetStashValue(asset, account string, newTotal uint64) {
	book := s.stashBook(asset)
	_, existed := book.Values[account]

	if existed {
		oldPrev, found := stashPredecessorOf(book, account)
		if found {
			oldNext, hasNext := book.LinkedList[account]
			if hasNext {
				book.LinkedList[oldPrev] = oldNext
			} else {
				delete(book.LinkedList, oldPrev)
			}
		}
		delete(book.LinkedList, account)
	}

	if newTotal == 0 {
		delete(book.Values, account)
		if len(book.Values) == 0 {
			delete(s.Stash, asset)
		}
		return
	}

	book.Values[account] = newTotal

	prev := ZeroAccount
	for {
		next, ok := book.LinkedList[prev]
		if !ok {
			break
		}
		if book.Values[next] >= newTotal {
			prev = next
			continue
		}
		break
	}
	next, hadNext := book.LinkedList[prev]
	book.LinkedList[prev] = account
	if hadNext {
		book.LinkedList[account] = next
	}
}

// StashEntry is one ranked (account, value) pair returned by a paginated
// stash listing.
type StashEntry struct {
	Account string `json:"account"`
	Value   uint64 `json:"value"`
}

// GetStashes walks the ranking list for asset from the head, skipping
// offset entries, and returns up to limit (account, value) pairs in
// ranked order. Pure; does not mutate.
func (s *State) GetStashes(asset string, offset, limit int) []StashEntry {
	book, ok := s.Stash[asset]
	if !ok {
		return nil
	}
	out := make([]StashEntry, 0, limit)
	prev := ZeroAccount
	skipped := 0
	for {
		next, ok := book.LinkedList[prev]
		if !ok {
			break
		}
		if skipped < offset {
			skipped++
			prev = next
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, StashEntry{Account: next, Value: book.Values[next]})
		prev = next
	}
	return out
}

// ---- Account event index ----

// IndexAccount appends the current block height to account's index and
// advances its counter. Called on every state-mutating operation that
// touches account.
func (s *State) IndexAccount(account string, height int64) {
	i := s.AccountNextIndex[account]
	if s.AccountIndexHeight[account] == nil {
		s.AccountIndexHeight[account] = map[uint64]int64{}
	}
	s.AccountIndexHeight[account][i] = height
	s.AccountNextIndex[account] = i + 1
}

// IndexBlocks returns every block number at which account participated,
// in the order recorded.
func (s *State) IndexBlocks(account string) []int64 {
	next := s.AccountNextIndex[account]
	heights := s.AccountIndexHeight[account]
	out := make([]int64, 0, next)
	for i := uint64(0); i < next; i++ {
		h, ok := heights[i]
		if !ok {
			break
		}
		out = append(out, h)
	}
	return out
}

var (
	ErrOverflow          = errorsmod.Register("atomicswap-ledger", 1, "ledger credit would overflow")
	ErrInsufficientFunds = errorsmod.Register("atomicswap-ledger", 2, "ledger debit exceeds balance")
)
