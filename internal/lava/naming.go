package lava

import (
	"fmt"
	"regexp"
	"strings"
)

// crosConfigRE matches the ChromeOS defconfig naming convention:
// cros://chromeos-<kernel-version>/<arch>/<flavour>.flavour.config[+fragment]
var crosConfigRE = regexp.MustCompile(`^cros://chromeos-([0-9.]+)/([a-z0-9_]+)/([a-z0-9._-]+)\.flavour\.config(\+[a-z0-9+-]+)?$`)

// crosFlavours maps ChromeOS board family names to the short codes used
// in job names.
var crosFlavours = map[string]string{
	"chromeos-amd-stoneyridge": "ston",
	"chromeos-intel-denverton": "denv",
	"chromeos-intel-pineview":  "pine",
	"chromiumos-arm":           "arm",
	"chromiumos-arm64":         "arm64",
	"chromiumos-mediatek":      "mtk",
	"chromiumos-qualcomm":      "qcom",
	"chromiumos-rockchip":      "rk32",
	"chromiumos-rockchip64":    "rk64",
	"chromiumos-x86_64":        "x86",
}

// crosDeviceTypes maps long ChromeOS device type strings to short codes.
var crosDeviceTypes = map[string]string{
	"hp-x360-12b-ca0500na-n4000-octopus_chromeos": "octopus-n4000",
	"hp-x360-12b-ca0010nr-n4020-octopus_chromeos": "octopus-n4020",
	"qemu_x86_64-uefi-chromeos":                   "qemu-x86",
}

// deviceTypeAliases rewrites base device types for labs that register a
// device under a different name. Empty by default, extend by adding
// entries.
var deviceTypeAliases = map[string]string{}

func aliasDeviceType(deviceType string) string {
	if alias, ok := deviceTypeAliases[deviceType]; ok {
		return alias
	}
	return deviceType
}

// shortenCrosDefconfig compresses a cros:// defconfig into
// "<arch>-<flavour>-<kernel-version>-<fragment>". Unknown flavours pass
// through unchanged; the fragment may be empty.
func shortenCrosDefconfig(defconfig string) (string, error) {
	m := crosConfigRE.FindStringSubmatch(defconfig)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedConfigName, defconfig)
	}
	kver, arch, flavour, frag := m[1], m[2], m[3], m[4]
	frag = strings.ReplaceAll(strings.TrimPrefix(frag, "+"), "+", "-")
	if short, ok := crosFlavours[flavour]; ok {
		flavour = short
	}
	return strings.Join([]string{arch, flavour, kver, frag}, "-"), nil
}

func shortenCrosDeviceType(deviceType string) string {
	if short, ok := crosDeviceTypes[deviceType]; ok {
		return short
	}
	return deviceType
}

// shortenJobName computes the job name from the raw parameters. ChromeOS
// builds get a compacted name so the result stays within LAVA's job name
// limit; everything else keeps the caller-provided name.
func shortenJobName(params Params) (string, error) {
	defconfig := params.String("defconfig_full")
	if !strings.HasPrefix(defconfig, "cros:") {
		return params.String("name"), nil
	}

	shortConfig, err := shortenCrosDefconfig(defconfig)
	if err != nil {
		return "", err
	}

	name := strings.Join([]string{
		params.String("tree"),
		params.String("git_branch"),
		params.String("git_describe"),
		params.String("arch"),
		shortConfig,
		params.String("build_environment"),
		shortenCrosDeviceType(params.String("device_type")),
		params.String("plan"),
	}, "-")

	return strings.ReplaceAll(name, "/", "-"), nil
}

// JobFileName returns the on-disk file name for a rendered job
// definition.
func JobFileName(params Params) string {
	return params.String("name") + ".yaml"
}
