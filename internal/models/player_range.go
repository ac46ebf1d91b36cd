package models

import "fmt"

// PlayerRange 玩家人数区间表（与商品多对多）
type PlayerRange struct {
	ID         uint `gorm:"primarykey" json:"id"`                                      // 主键
	MinPlayers int  `gorm:"not null;uniqueIndex:idx_player_range" json:"min_players"`  // 最少人数
	MaxPlayers int  `gorm:"not null;uniqueIndex:idx_player_range" json:"max_players"`  // 最多人数
}

// TableName 指定表名
func (PlayerRange) TableName() string {
	return "player_ranges"
}

// Label 返回可读的人数区间描述
func (r PlayerRange) Label() string {
	if r.MinPlayers == r.MaxPlayers {
		return fmt.Sprintf("%d", r.MinPlayers)
	}
	return fmt.Sprintf("%d-%d", r.MinPlayers, r.MaxPlayers)
}
