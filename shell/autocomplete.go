package shell

import (
	"github.com/chzyer/readline"
	"github.com/samber/lo"

	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/config"
	"github.com/domino14/onitama/search"
)

var boolValues = []string{"true", "false"}

func items(names ...string) []readline.PrefixCompleterInterface {
	return lo.Map(names, func(n string, _ int) readline.PrefixCompleterInterface {
		return readline.PcItem(n)
	})
}

func cardItems() []readline.PrefixCompleterInterface {
	return lo.Map(cards.All(), func(c cards.Card, _ int) readline.PrefixCompleterInterface {
		return readline.PcItem(c.Key())
	})
}

var strategies = []string{
	search.StrategyFixed.String(),
	search.StrategyIterative.String(),
	search.StrategyAdaptive.String(),
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help", items("new", "play", "solve", "perft", "autoplay", "analyze", "gendecks", "set", "script")...),
	readline.PcItem("new", append(items("random"), cardItems()...)...),
	readline.PcItem("show", readline.PcItem("cards")),
	readline.PcItem("gen"),
	readline.PcItem("play", cardItems()...),
	readline.PcItem("bot"),
	readline.PcItem("undo"),
	readline.PcItem("solve",
		readline.PcItem("-depth"),
		readline.PcItem("-time"),
		readline.PcItem("-threads"),
		readline.PcItem("-strategy", items(strategies...)...),
	),
	readline.PcItem("eval"),
	readline.PcItem("perft",
		readline.PcItem("-divide", items(boolValues...)...),
		readline.PcItem("-threads"),
	),
	readline.PcItem("autoplay",
		readline.PcItem("-threads"),
		readline.PcItem("-logfile"),
		readline.PcItem("-decks"),
		readline.PcItem("-yaml", items(boolValues...)...),
	),
	readline.PcItem("analyze", readline.PcItem("-yaml", items(boolValues...)...)),
	readline.PcItem("gendecks"),
	readline.PcItem("set", items(
		config.ConfigDebug, config.ConfigSearchDepth, config.ConfigSearchTime,
		config.ConfigSearchNodes, config.ConfigSearchThreads, config.ConfigSearchPruning,
		config.ConfigSearchTTable, config.ConfigTTableFraction, config.ConfigSearchStrategy,
		config.ConfigAdaptiveMargin, config.ConfigEval, config.ConfigPieceWeight,
		config.ConfigSquareWeight, config.ConfigKingThreatWeight, config.ConfigKingAdvanceWeight,
		config.ConfigDeck, config.ConfigHuman, config.ConfigMaxPlies,
	)...),
	readline.PcItem("load"),
	readline.PcItem("export"),
	readline.PcItem("script"),
	readline.PcItem("exit"),
)
