package game

import "github.com/scerios/quiz/domain"

// Outbound message names.
const (
	MsgPlayerLeft            = "playerLeft"
	MsgShowPlayer            = "showPlayer"
	MsgGetNextQuestion       = "getNextQuestion"
	MsgGetQuestion           = "getQuestion"
	MsgForcePostAnswer       = "forcePostAnswer"
	MsgGetAnswer             = "getAnswer"
	MsgUpdatePoint           = "updatePoint"
	MsgDoublerClicked        = "doublerClicked"
	MsgDoublerDisabled       = "doublerDisabled"
	MsgAuthorizeCategoryPick = "authorizeCategoryPick"
	MsgChosenCategory        = "chosenCategory"
)

type playerLeftMsg struct {
	PlayerSocketID string `json:"playerSocketId"`
}

// playerView is the public slice of a player row shown to the admin. It never
// carries login state or credentials.
type playerView struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name"`
	Point    int    `json:"point"`
}

type showPlayerMsg struct {
	Player playerView `json:"player"`
}

type categoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// nextQuestionMsg is the stripped round view broadcast to players. Only the
// question text crosses this boundary; the answer stays admin-side.
type nextQuestionMsg struct {
	Question string      `json:"question"`
	Category categoryRef `json:"category"`
	Timer    int         `json:"timer"`
}

// questionView is the admin's full view of a question row.
type questionView struct {
	ID       int64       `json:"id"`
	Category categoryRef `json:"category"`
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
}

type adminQuestionMsg struct {
	Question     questionView  `json:"question"`
	NextQuestion *questionView `json:"nextQuestion,omitempty"`
}

type getAnswerMsg struct {
	Player answeredPlayer `json:"player"`
}

type answeredPlayer struct {
	ID        int64  `json:"id"`
	SocketID  string `json:"socketId"`
	Name      string `json:"name"`
	TimeLeft  int    `json:"timeLeft"`
	Answer    string `json:"answer"`
	IsDoubled bool   `json:"isDoubled"`
}

type updatePointMsg struct {
	Point int `json:"point"`
}

type doublerClickedMsg struct {
	IsClicked bool `json:"isClicked"`
}

type chosenCategoryMsg struct {
	CategoryID int64 `json:"categoryId"`
}

func newQuestionView(q domain.Question) questionView {
	return questionView{
		ID:       q.ID,
		Category: categoryRef{ID: q.CategoryID, Name: q.CategoryName},
		Question: q.Text,
		Answer:   q.Answer,
	}
}

func newPlayerView(p domain.Player) playerView {
	return playerView{
		SocketID: p.ConnectionID,
		Name:     p.Name,
		Point:    p.Point,
	}
}
