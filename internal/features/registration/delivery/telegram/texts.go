package telegram

import (
	"fmt"

	"giveaway-registration-bot/internal/features/registration/models"
)

func welcomeText(channel string) string {
	return fmt.Sprintf(`Привет! 👋

Я бот для проведения розыгрыша от клуба робототехники J-Get!

Чтобы стать участником розыгрыша:
1️⃣ Подпишитесь на наш канал @%s
2️⃣ Предоставьте свой номер телефона
3️⃣ Введите информацию о родителе и ребенке

Нажмите кнопки ниже для выполнения требований:`, channel)
}

func welcomeBackText(p *models.Participant) string {
	return fmt.Sprintf(`🎉 **Добро пожаловать обратно!**

✅ **Вы уже участник розыгрыша!**

📋 **Ваши данные:**
👤 ФИО родителя: %s
🏫 Школа ребенка: %s
📚 Класс ребенка: %s
📱 Телефон: %s
🎫 **Код участника: `+"`%s`"+`**
📅 Дата регистрации: %s

⏳ **Ждите результаты розыгрыша!**
Удачи! 🍀`,
		p.GuardianName, p.ChildSchool, p.ChildClass, p.PhoneNumber, p.Code,
		p.RegisteredAt.Format("2006-01-02 15:04:05"))
}

func helpText() string {
	return `🤖 Я умею:
/start — регистрация в розыгрыше
/help — этот список

А еще могу поддержать простую беседу: поздороваться, ответить "как дела" и попрощаться.`
}

func subscribedStatusText(channel string) string {
	return fmt.Sprintf(`✅ **Вы подписаны на канал @%s!**

📋 **Статус требований:**
🔍 Подписка на канал: ✅ Выполнено
📱 Номер телефона: ❌ Не предоставлен
📝 Информация о родителе и ребенке: ❌ Не введена

**Следующий шаг:** Предоставьте свой номер телефона`, channel)
}

func phoneReceivedText() string {
	return `✅ **Номер телефона получен!**

📋 **Статус требований:**
🔍 Подписка на канал: ✅ Выполнено
📱 Номер телефона: ✅ Предоставлен
📝 Информация о родителе и ребенке: ❌ Не введена

**Следующий шаг:** Введите ФИО родителя

Пожалуйста, напишите ваше полное имя (например: Иванов Иван Иванович)`
}

func guardianSavedText(name string) string {
	return fmt.Sprintf(`✅ **ФИО родителя сохранено: %s**

**Следующий шаг:** Введите школу ребенка

Пожалуйста, напишите название школы (например: МБОУ СОШ №39)`, name)
}

func schoolSavedText(school string) string {
	return fmt.Sprintf(`✅ **Школа ребенка сохранена: %s**

**Следующий шаг:** Введите класс ребенка

Пожалуйста, напишите класс (например: 7А, 8Б, 11)`, school)
}

func registeredText(p *models.Participant) string {
	return fmt.Sprintf(`🎉 **Поздравляем! Теперь вы участник розыгрыша!**

📋 **Ваши данные:**
👤 ФИО родителя: %s
🏫 Школа ребенка: %s
📚 Класс ребенка: %s
📱 Телефон: %s
🎫 **Код участника: `+"`%s`"+`**

💾 Сохраните этот код! Он понадобится для участия в розыгрыше.

🍀 Удачи в розыгрыше!`,
		p.GuardianName, p.ChildSchool, p.ChildClass, p.PhoneNumber, p.Code)
}

func codeText(code string) string {
	return fmt.Sprintf("🎫 **Ваш код участника: `%s`**", code)
}
