package notifier

import "fmt"

// The HTML below mirrors the platform's public mail styling: a red header,
// a light content block and a short signature.

const footer = `<p style="color: #718096; font-size: 14px; margin-top: 30px;">Фолклорика - Национална платформа за български фолклор</p>`

func associationPendingTemplate(data AssociationPendingData, baseURL string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c53030;">Ново фолклорно сдружение за одобрение</h2>

  <div style="background: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">📋 Информация за сдружението:</h3>
    <p><strong>Име:</strong> %s</p>
    <p><strong>Град:</strong> %s</p>
    <p><strong>Email:</strong> %s</p>
  </div>

  <div style="background: #fff5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">👤 Регистрирано от:</h3>
    <p><strong>Име:</strong> %s</p>
    <p><strong>Email:</strong> %s</p>
  </div>

  <div style="margin: 30px 0; text-align: center;">
    <a href="%s/admin/associations"
       style="background: #c53030; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
      Отвори Admin панел
    </a>
  </div>

  %s
</div>`,
		data.AssociationName, data.City, data.ContactEmail,
		data.UserName, data.UserEmail, baseURL, footer)
}

func eventPendingTemplate(data EventPendingData, baseURL string) string {
	association := ""
	if data.AssociationName != "" {
		association = fmt.Sprintf(`<p><strong>Организатор:</strong> %s</p>`, data.AssociationName)
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c53030;">Ново фолклорно събитие за одобрение</h2>

  <div style="background: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">📋 Информация за събитието:</h3>
    <p><strong>Название:</strong> %s</p>
    <p><strong>Дата:</strong> %s</p>
    <p><strong>Град:</strong> %s</p>
    %s
  </div>

  <div style="background: #fff5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">👤 Публикувано от:</h3>
    <p><strong>Име:</strong> %s</p>
    <p><strong>Email:</strong> %s</p>
  </div>

  <div style="margin: 30px 0; text-align: center;">
    <a href="%s/admin/events"
       style="background: #c53030; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
      Отвори Admin панел
    </a>
  </div>

  %s
</div>`,
		data.EventTitle, data.EventDate, data.City, association,
		data.UserName, data.UserEmail, baseURL, footer)
}

func verificationTemplate(name, verifyURL string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c53030;">Здравейте%s!</h2>

  <p>Благодарим Ви за регистрацията във Фолклорика. За да активирате акаунта си,
  моля потвърдете имейл адреса си:</p>

  <div style="margin: 30px 0; text-align: center;">
    <a href="%s"
       style="background: #c53030; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
      Потвърди имейл
    </a>
  </div>

  <p style="color: #718096; font-size: 14px;">Ако не сте се регистрирали вие, игнорирайте това съобщение.</p>

  %s
</div>`, commaName(name), verifyURL, footer)
}

func passwordResetTemplate(name, resetURL string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c53030;">Здравейте%s!</h2>

  <p>Получихме заявка за нулиране на паролата на вашия акаунт.
  Линкът е валиден 1 час:</p>

  <div style="margin: 30px 0; text-align: center;">
    <a href="%s"
       style="background: #c53030; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
      Нулирай паролата
    </a>
  </div>

  <p style="color: #718096; font-size: 14px;">Ако не сте заявили нулиране, игнорирайте това съобщение.</p>

  %s
</div>`, commaName(name), resetURL, footer)
}

func passwordChangedTemplate(name string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c53030;">Здравейте%s!</h2>

  <p>Паролата на вашия акаунт във Фолклорика беше променена успешно.</p>

  <p>Ако не сте направили тази промяна, моля свържете се с нас незабавно.</p>

  %s
</div>`, commaName(name), footer)
}

func newYearTemplate(name string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #dc2626 0%%, #991b1b 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="margin: 0; font-size: 32px;">🎉 Честита Нова Година! 🎉</h1>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px;">
    <div style="font-size: 24px; font-weight: bold; margin-bottom: 20px;">Здравейте%s!</div>

    <p>От името на екипа на <strong>Фолклорика</strong> искаме да Ви пожелаем
    здраве, щастие и много нови фолклорни празници! Благодарим Ви, че сте част
    от нашата платформа и че заедно популяризираме българската култура и традиции.</p>

    <p>🎊 Нека новата година бъде изпълнена с музика, танци и хубави моменти! 🎊</p>

    <div style="margin-top: 30px; font-style: italic; color: #666;">
      С уважение,<br>
      Екипът на Фолклорика 🎪
    </div>
  </div>
  %s
</div>`, commaName(name), footer)
}

func commaName(name string) string {
	if name == "" {
		return ""
	}
	return ", " + name
}
