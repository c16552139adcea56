package repository

// Factory describes access to point repositories of one storage backend.
type Factory interface {
	UserPoints() UserPointRepository
	PointHistories() PointHistoryRepository
}
