package selector

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"github.com/shapedtime/neomovies/internal/auth"
	"github.com/shapedtime/neomovies/internal/neoapi"
)

// MessageKey identifies a user-facing string.
type MessageKey string

const (
	MsgLoading        MessageKey = "loading"
	MsgNotFound       MessageKey = "not_found"
	MsgLoadFailed     MessageKey = "load_failed"
	MsgNoneForSeason  MessageKey = "none_for_season"
	MsgSessionExpired MessageKey = "session_expired"
	MsgNoToken        MessageKey = "no_token"
	MsgSeasons        MessageKey = "seasons"
	MsgSeason         MessageKey = "season"
	MsgReleases       MessageKey = "releases"
	MsgMagnet         MessageKey = "magnet"
	MsgUntitled       MessageKey = "untitled"
)

var catalogs = []map[MessageKey]string{
	// Russian is the default
	{
		MsgLoading:        "Загрузка торрентов...",
		MsgNotFound:       "Торренты не найдены.",
		MsgLoadFailed:     "Не удалось загрузить список торрентов.",
		MsgNoneForSeason:  "Торрентов для выбранного сезона нет.",
		MsgSessionExpired: "Сессия подтверждения истекла. Пожалуйста, попробуйте зарегистрироваться снова.",
		MsgNoToken:        "Не удалось войти: токен не получен.",
		MsgSeasons:        "Сезоны",
		MsgSeason:         "Сезон %d",
		MsgReleases:       "Раздачи",
		MsgMagnet:         "Magnet-ссылка",
		MsgUntitled:       "Раздача",
	},
	{
		MsgLoading:        "Loading torrents...",
		MsgNotFound:       "No torrents found.",
		MsgLoadFailed:     "Failed to load the torrent list.",
		MsgNoneForSeason:  "No torrents for the selected season.",
		MsgSessionExpired: "The verification session has expired. Please register again.",
		MsgNoToken:        "Login failed: no token received.",
		MsgSeasons:        "Seasons",
		MsgSeason:         "Season %d",
		MsgReleases:       "Releases",
		MsgMagnet:         "Magnet link",
		MsgUntitled:       "Release",
	},
}

var matcher = language.NewMatcher([]language.Tag{
	language.Russian,
	language.English,
})

// Messages is a localized string table.
type Messages struct {
	tag   language.Tag
	table map[MessageKey]string
}

// NewMessages picks the catalog that best matches locale, e.g. "en-US" or
// "ru". Unsupported or empty locales get Russian.
func NewMessages(locale string) *Messages {
	tag, idx := language.MatchStrings(matcher, locale)
	return &Messages{tag: tag, table: catalogs[idx]}
}

// Tag returns the matched language.
func (m *Messages) Tag() language.Tag {
	return m.tag
}

func (m *Messages) Get(key MessageKey) string {
	if s, ok := m.table[key]; ok {
		return s
	}
	return string(key)
}

// Season renders the label of a season button.
func (m *Messages) Season(n int) string {
	return fmt.Sprintf(m.Get(MsgSeason), n)
}

// Error renders err for display. Server messages pass through; transport
// failures collapse into the generic load failure.
func (m *Messages) Error(err error) string {
	if err == nil {
		return ""
	}

	var remoteErr *neoapi.RemoteRequestError
	var transportErr *neoapi.TransportError
	switch {
	case errors.Is(err, auth.ErrSessionExpired):
		return m.Get(MsgSessionExpired)
	case errors.Is(err, auth.ErrNoToken):
		return m.Get(MsgNoToken)
	case errors.As(err, &remoteErr):
		return remoteErr.Message
	case errors.As(err, &transportErr):
		return m.Get(MsgLoadFailed)
	default:
		return err.Error()
	}
}
