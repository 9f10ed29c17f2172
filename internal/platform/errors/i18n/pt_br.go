package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeUnknown:                  "Ocorreu um erro inesperado",
		CodeNotationIllegalCharacter: "Caractere ilegal {{.Char}} na posição {{.Pos}}",
		CodeNotationGrammar:          "Não foi possível ler a notação perto de {{if .Token}}{{.Token}}{{else}}o fim da entrada{{end}}: esperado {{.Expected}}",
		CodeDiceCountTooLow:          "Número de dados menor que 1 (recebido {{.Number}})",
		CodeDiceSizeTooSmall:         "Tamanho do dado menor que 2 (recebido {{.Size}})",
		CodeDiceTooManyDropped:       "Dados descartados demais: {{.DropLow}} menores e {{.DropHigh}} maiores de {{.Number}}",
		CodeDiceLocalModCancelsDie:   "Modificador local maior que o dado, todas as rolagens seriam 0 (d{{.Size}}{{.LocalMod}})",
		CodeDiceValueOutOfRange:      "Valor {{.Value}} fora do intervalo",
		CodeDiceLimitExceeded:        "Não é possível rolar {{.Number}} dados, o limite é {{.Limit}}",
		CodeSeedOutOfRange:           "Semente fora do intervalo",
		CodeNotFound:                 "Rolagem {{.ID}} não encontrada",
	},
}
