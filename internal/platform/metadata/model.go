package metadata

// Metadata 定义了在SQLite中持久化的键值元数据。
// 它承载快照进度等少量系统级簿记信息。
type Metadata struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value string
}
