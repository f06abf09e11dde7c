package game

import "encoding/json"

// Envelope is the wire frame for every message in both directions: an event
// name for routing plus the event's payload, kept raw until the handler
// decodes it.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if env.Event == "" {
		return Envelope{}, ErrBadPayload
	}
	return env, nil
}

// Inbound event names, as the admin and player frontends emit them.
const (
	EventPostAdminSocketID  = "postAdminSocketId"
	EventSignUpForGame      = "signUpForGame"
	EventPickQuestion       = "pickQuestion"
	EventRaiseCategoryLimit = "raiseCategoryLimit"
	EventCollectAnswers     = "collectAnswers"
	EventPostAnswer         = "postAnswer"
	EventFinishQuestion     = "finishQuestion"
	EventLogoutEveryone     = "logoutEveryone"
	EventTakeChances        = "takeChances"
	EventAuthorizePlayer    = "authorizePlayer"
	EventChooseCategory     = "chooseCategory"
)

// Inbound payloads.

type signUpData struct {
	PlayerID int64 `json:"playerId"`
}

type pickQuestionData struct {
	CategoryID int64 `json:"categoryId"`
	Index      int   `json:"index"`
	Timer      int   `json:"timer"`
}

type raiseLimitData struct {
	Index int `json:"index"`
}

type postAnswerData struct {
	Player answerPlayer `json:"player"`
}

type answerPlayer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TimeLeft  int    `json:"timeLeft"`
	Answer    string `json:"answer"`
	IsDoubled bool   `json:"isDoubled"`
}

type finishQuestionData struct {
	Correct   []scoreEntry `json:"correct"`
	Incorrect []scoreEntry `json:"incorrect"`
}

type scoreEntry struct {
	ID          int64  `json:"id"`
	SocketID    string `json:"socketId"`
	Point       int    `json:"point"`
	ChangeValue int    `json:"changeValue"`
}

type authorizePlayerData struct {
	PlayerSocketID string `json:"playerSocketId"`
}

type chooseCategoryData struct {
	CategoryID int64 `json:"categoryId"`
}
