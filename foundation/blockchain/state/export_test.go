package state

// CorruptBlockHash overwrites the stored hash of the block at the specified
// index so tests can probe chain validation.
func (s *State) CorruptBlockHash(index int, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chain[index].Hash = hash
}

// CorruptTransactionAmount overwrites the amount of a transaction stored in
// the chain.
func (s *State) CorruptTransactionAmount(index int, tx int, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chain[index].Transactions[tx].Amount = amount
}
