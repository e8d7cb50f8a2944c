package conversation

import "fmt"

// HelpText is sent on /help and at the top of /start.
const HelpText = `Привет, абитуриент!
Я хочу сыграть с тобой в одну игру, в процессе которой ты узнаешь, какие направления существуют в ИКНТ, какие технологии там изучают, и где они потом тебе пригодятся! А если наберёшь достаточно баллов, приходи за наградой к стенду ИКНТ!`

const (
	msgAskName     = "Для начала представься!"
	msgAskEmail    = "Теперь напиши свой e-mail. "
	msgReady       = "Отлично, приступим!"
	msgBadEmail    = "Это не корректный адрес!"
	msgCorrect     = "Верно! "
	msgWrong       = "Нет. "
	msgNoMoreTasks = "У меня больше нет заданий. \nПриходи на стенд ИКНТ, если хочешь узнать больше об институте!"
)

func greeting(name string) string {
	return fmt.Sprintf("Приятно познакомиться, %s!", name)
}

func finalScore(score int) string {
	return fmt.Sprintf("Это было последнее задание!\nТы набрал %d баллов. Приходи на стенд ИКНТ, авось чем-нибудь наградим :)", score)
}
