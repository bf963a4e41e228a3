package mappers

import (
	"finsim/internal/domain/wallet"
	"finsim/internal/infrastructure/persistence/models"
)

func WalletTransactionToEntity(model *models.WalletTransactionModel) wallet.Transaction {
	return wallet.Transaction{
		TxID:         model.TxID,
		UserID:       model.UserID,
		RequestID:    model.RequestID,
		Kind:         wallet.Kind(model.Kind),
		Amount:       model.Amount,
		BalanceAfter: model.BalanceAfter,
		CreatedAt:    model.CreatedAt,
	}
}

func WalletTransactionToModel(tx wallet.Transaction) *models.WalletTransactionModel {
	return &models.WalletTransactionModel{
		TxID:         tx.TxID,
		UserID:       tx.UserID,
		RequestID:    tx.RequestID,
		Kind:         string(tx.Kind),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		CreatedAt:    tx.CreatedAt,
	}
}
