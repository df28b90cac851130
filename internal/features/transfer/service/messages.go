package service

import (
	"errors"
	"fmt"

	"payments-chat-backend/internal/features/transfer/models"
)

// Agent lines shown in the chat.
const (
	MsgWelcome             = "Welcome to your dashboard!"
	MsgUnrecognizedCommand = "Comando não reconhecido. Tente: transfira R$50 para 2955"
	MsgRecipientNotFound   = "Usuário de destino não encontrado."
	MsgAskMethod           = "Qual método deseja usar para a transferência?"
	MsgTransferPending     = "Já existe uma transferência pendente. Escolha um método: PIX, POS, Link ou Cartão."
	MsgNoPendingTransfer   = "Nenhuma transferência pendente. Tente: transfira R$50 para 2955"
	MsgNoPendingReceipt    = "Não há comprovante para compartilhar."
	MsgMethodNotSpecified  = "Método de pagamento não especificado. Por favor, escolha um dos botões."
	MsgMethodNotRecognized = "Método não reconhecido. Por favor, responda com PIX, POS, Link, MPOS ou Cartão."
	MsgMethodUnavailable   = "MPOS ainda não está disponível nesta aplicação."
	MsgInvalidRecipientID  = "ID do destinatário inválido."
	MsgInvalidAmount       = "Valor inválido para transferência."
	MsgPaymentFailed       = "Erro ao processar a transação. Por favor, tente novamente."
	MsgAskShare            = "Deseja compartilhar o comprovante da transferência?"
	MsgReceiptShared       = "Comprovante gerado e baixado com sucesso (PDF)!"
	MsgReceiptDeclined     = "Ok, comprovante não compartilhado."
	MsgReceiptFailed       = "Falha ao gerar o comprovante."
)

func transferSucceeded(method models.Method) string {
	return fmt.Sprintf("Transferência via %s realizada com sucesso!", method)
}

// UserMessage maps a conversation error to the line the agent answers with.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnrecognizedCommand):
		return MsgUnrecognizedCommand
	case errors.Is(err, ErrTransferPending):
		return MsgTransferPending
	case errors.Is(err, ErrNoPendingTransfer):
		return MsgNoPendingTransfer
	case errors.Is(err, ErrNoPendingReceipt):
		return MsgNoPendingReceipt
	case errors.Is(err, ErrRecipientNotFound):
		return MsgRecipientNotFound
	case errors.Is(err, ErrInvalidRecipientID):
		return MsgInvalidRecipientID
	case errors.Is(err, ErrInvalidAmount):
		return MsgInvalidAmount
	case errors.Is(err, ErrMethodNotSpecified):
		return MsgMethodNotSpecified
	case errors.Is(err, ErrMethodNotRecognized):
		return MsgMethodNotRecognized
	case errors.Is(err, ErrMethodUnavailable):
		return MsgMethodUnavailable
	case errors.Is(err, ErrReceiptFailed):
		return MsgReceiptFailed
	default:
		return MsgPaymentFailed
	}
}
