package service

// ScoreMode 提交类型，决定单题计分公式
type ScoreMode string

const (
	ScoreDaily      ScoreMode = "daily"
	ScoreCollection ScoreMode = "collection"
	ScoreSingle     ScoreMode = "single"
)

// Scorer 按提交类型对逐题结果计分。
// 三种公式统一在 Score 一个入口，"答错得 0 分并重置连对"只在这里发生，
// 各写路径不再各自复制这条规则。
// 每日题组公式带状态（提交内连对），因此 Scorer 每次提交新建一个。
type Scorer struct {
	mode   ScoreMode
	streak int
}

func NewScorer(mode ScoreMode) *Scorer {
	return &Scorer{mode: mode}
}

// Score 计算单题得分。elapsedSeconds 先钳制到非负；
// 答错立即重置连对，再进入下一题的计分。
func (s *Scorer) Score(correct bool, elapsedSeconds, difficulty int) int {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}

	if !correct {
		s.streak = 0
		return 0
	}

	switch s.mode {
	case ScoreDaily:
		// 连对每满 5 题加 1 分：第 5 连对得 2 分，第 10 连对得 3 分
		s.streak++
		return 1 + s.streak/5
	case ScoreCollection:
		bonus := 50 - elapsedSeconds
		if bonus < 0 {
			bonus = 0
		}
		return 100 + bonus
	case ScoreSingle:
		bonus := 60 - elapsedSeconds
		if bonus < 0 {
			bonus = 0
		}
		return 100 + difficulty*20 + bonus*2
	}
	return 0
}

// Streak 当前提交内的连对数
func (s *Scorer) Streak() int {
	return s.streak
}
