package auction

// Statistics are the running sale aggregates for a session. Averages are
// finalized on completion; the other fields stay live.
type Statistics struct {
	TotalSold    int
	TotalUnsold  int
	TotalRevenue int64
	AvgSalePrice float64

	HighestSaleAmount   int64
	HighestSalePlayerID string
	LowestSaleAmount    int64
	LowestSalePlayerID  string
}

func (s *Statistics) recordSale(lot Lot) {
	s.TotalSold++
	s.TotalRevenue += lot.Amount

	if lot.Amount > s.HighestSaleAmount {
		s.HighestSaleAmount = lot.Amount
		s.HighestSalePlayerID = lot.PlayerID
	}
	if s.LowestSaleAmount == 0 || lot.Amount < s.LowestSaleAmount {
		s.LowestSaleAmount = lot.Amount
		s.LowestSalePlayerID = lot.PlayerID
	}
}

func (s *Statistics) finalize() {
	if s.TotalSold == 0 {
		s.AvgSalePrice = 0
		return
	}
	s.AvgSalePrice = float64(s.TotalRevenue) / float64(s.TotalSold)
}
