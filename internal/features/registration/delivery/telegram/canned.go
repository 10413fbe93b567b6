package telegram

import "strings"

// cannedReplies — фиксированный набор разговорных триггеров. Совпадение
// отвечается заготовкой и никогда не попадает в машину состояний.
var cannedReplies = []struct {
	triggers []string
	reply    string
}{
	{
		triggers: []string{"привет", "здравствуй"},
		reply:    "Привет! Рад тебя видеть! 😊",
	},
	{
		triggers: []string{"как дела", "как ты"},
		reply:    "У меня всё отлично! А у тебя как дела? 😄",
	},
	{
		triggers: []string{"спасибо", "благодарю"},
		reply:    "Пожалуйста! Рад быть полезным! 😊",
	},
	{
		triggers: []string{"пока", "до свидания"},
		reply:    "До свидания! Буду ждать нашей следующей встречи! 👋",
	},
	{
		triggers: []string{"кто ты", "что ты умеешь"},
		reply:    "Я бот для проведения розыгрыша от клуба робототехники J-Get! Умею регистрировать участников и вести простые диалоги. Попробуйте команду /help для списка возможностей! 🤖",
	},
}

// cannedReply подбирает заготовленный ответ на разговорную фразу.
func cannedReply(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, c := range cannedReplies {
		for _, trigger := range c.triggers {
			if strings.Contains(lowered, trigger) {
				return c.reply, true
			}
		}
	}
	return "", false
}
