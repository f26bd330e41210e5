package service

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/pata-backend/internal/models"
)

// ContactInput сообщение владельцу пропавшего питомца.
type ContactInput struct {
	Message string
	Name    string
	Phone   string
	Email   string
	SeenAt  string
}

func rejectionMail(l *models.Listing) (subject, body string) {
	subject = fmt.Sprintf("Solicitud de publicación rechazada: %q", l.Name)

	reason := strings.TrimSpace(l.RejectionReason)
	if reason != "" {
		body = fmt.Sprintf("Hola,\n\nTu publicación sobre %s ha sido rechazada por el siguiente motivo:\n\n%s\n\nAtentamente,\nEquipo PATA", l.Name, reason)
	} else {
		body = fmt.Sprintf("Hola,\n\nTu publicación sobre %s ha sido rechazada.\n\nAtentamente,\nEquipo PATA", l.Name)
	}
	return subject, body
}

func contactMail(l *models.Listing, in ContactInput) (subject, body string) {
	petName := l.Name
	if petName == "" {
		petName = "tu mascota"
	}
	subject = fmt.Sprintf("Alguien tiene información sobre %s", petName)

	var b strings.Builder
	fmt.Fprintf(&b, "Hola,\n\nAlguien ha enviado un mensaje desde la página de PATA sobre la mascota %q.\n\n", petName)
	message := in.Message
	if message == "" {
		message = "(sin mensaje)"
	}
	fmt.Fprintf(&b, "Mensaje:\n%s\n\n", message)

	if in.SeenAt != "" {
		fmt.Fprintf(&b, "Posible lugar donde la vieron:\n%s\n\n", in.SeenAt)
	}

	if in.Name != "" || in.Phone != "" || in.Email != "" {
		b.WriteString("Datos de contacto de quien envía el mensaje:\n")
		if in.Name != "" {
			fmt.Fprintf(&b, "- Nombre: %s\n", in.Name)
		}
		if in.Phone != "" {
			fmt.Fprintf(&b, "- Teléfono: %s\n", in.Phone)
		}
		if in.Email != "" {
			fmt.Fprintf(&b, "- Correo: %s\n", in.Email)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("La persona no dejó datos de contacto adicionales.\n\n")
	}

	b.WriteString("Por favor ten cuidado con posibles intentos de estafa. Verifica bien la información antes de entregar dinero o datos sensibles.\n\n")
	b.WriteString("Este mensaje fue enviado automáticamente por la página.\n")
	return subject, b.String()
}
