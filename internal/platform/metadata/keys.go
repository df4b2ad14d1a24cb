package metadata

// --- SQLite 元数据键 ---

const (
	// LastSnapshotAnswerIDKey 记录了上一次一致性快照所覆盖到的最大答题记录ID。
	// 缓存热重建时，只需要回放这个ID之后的答题记录。
	LastSnapshotAnswerIDKey = "last_snapshot_answer_id"
)
